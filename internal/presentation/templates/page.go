package templates

import "html/template"

var pageTemplate = template.Must(template.Must(resultTemplates.Clone()).Parse(
	`{{define "page"}}<!DOCTYPE html>
<html lang="en" class="{{if .Region.View.IsDark}}dark{{end}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <script>tailwind.config = { darkMode: 'class' };</script>
    <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.min.js"></script>
    <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.0/css/all.min.css">
</head>
<body class="min-h-screen bg-gradient-to-br from-blue-50 via-white to-purple-50 transition-colors duration-300 dark:from-gray-900 dark:via-gray-800 dark:to-gray-900">
<main class="container mx-auto max-w-6xl px-4 py-8">
    <header class="mb-8 flex items-center justify-between">
        <div>
            <h1 class="text-4xl font-bold text-gray-800 dark:text-white"><i class="fas fa-microchip mr-3 text-blue-500"></i>{{.Title}}</h1>
            <p class="mt-2 text-gray-600 dark:text-gray-300">Truth tables, Karnaugh maps and Verilog simulation for Boolean expressions</p>
        </div>
        <button id="themeToggle" type="button" class="rounded-full bg-white p-3 shadow-lg dark:bg-gray-700" title="{{.ThemeLabel}}" aria-label="{{.ThemeLabel}}">
            <i id="themeIcon" class="fas {{.ThemeIcon}} text-xl text-gray-700 dark:text-yellow-300"></i>
        </button>
    </header>

    <section class="mb-8 rounded-3xl bg-white/80 p-8 shadow-xl dark:bg-gray-800/80">
        <form id="expressionForm" autocomplete="off">
            <label for="expressionInput" class="mb-2 block text-sm font-semibold text-gray-700 dark:text-gray-300">Boolean Expression</label>
            <input id="expressionInput" name="expression" type="text" value="{{.Region.View.Expression}}" placeholder="e.g. (A &amp; B) | ~C"
                class="w-full rounded-2xl border-2 border-gray-200 p-4 font-mono text-lg focus:border-blue-500 focus:outline-none dark:border-gray-600 dark:bg-gray-700 dark:text-white">
            <p class="mt-2 text-sm text-gray-500 dark:text-gray-400">Formatted: <code id="formattedExpression" class="font-mono">{{.Formatted}}</code></p>
            <div class="mt-6 grid grid-cols-2 gap-4 md:grid-cols-4">
                <button type="submit" data-action="truth-table" class="rounded-2xl bg-gradient-to-r from-blue-500 to-blue-600 px-6 py-3 font-bold text-white"><i class="fas fa-table mr-2"></i>Truth Table</button>
                <button type="button" data-action="kmap" class="rounded-2xl bg-gradient-to-r from-purple-500 to-purple-600 px-6 py-3 font-bold text-white"><i class="fas fa-border-all mr-2"></i>K-Map</button>
                <button type="button" data-action="verilog" class="rounded-2xl bg-gradient-to-r from-green-500 to-green-600 px-6 py-3 font-bold text-white"><i class="fas fa-code mr-2"></i>Verilog</button>
                <button type="button" data-action="reset" class="rounded-2xl bg-gradient-to-r from-gray-500 to-gray-600 px-6 py-3 font-bold text-white"><i class="fas fa-undo mr-2"></i>Reset</button>
            </div>
        </form>
        {{- if .Presets}}
        <div id="presets" class="mt-6 flex flex-wrap gap-2">
            {{- range .Presets}}
            <button type="button" data-preset="{{.ID}}" data-expression="{{.Expression}}" class="rounded-full bg-blue-100 px-4 py-2 text-sm font-semibold text-blue-700 dark:bg-blue-900 dark:text-blue-200" title="{{.Expression}}">{{.Label}}</button>
            {{- end}}
        </div>
        {{- end}}
    </section>

    <section class="rounded-3xl bg-white/80 p-8 shadow-xl dark:bg-gray-800/80">
    {{template "region" .Region}}
    </section>
</main>
<script>
(function () {
    var api = '/api/v1/explorer';
    var input = document.getElementById('expressionInput');
    var chart = null;
    var chartId = '';

    function destroyChart() {
        if (chart) {
            chart.destroy();
            chart = null;
        }
        chartId = '';
    }

    function installTicks(config) {
        var labels = config.options.scales.y.ticks.labels || {};
        delete config.options.scales.y.ticks.labels;
        config.options.scales.y.ticks.callback = function (value) {
            return labels[String(value)] || '';
        };
        return config;
    }

    function syncChart() {
        var canvas = document.getElementById('waveformChart');
        if (!canvas) {
            destroyChart();
            return Promise.resolve();
        }
        var id = canvas.getAttribute('data-chart-id');
        if (chart && id === chartId && chart.canvas === canvas) {
            return Promise.resolve();
        }
        return fetch(api + '/chart', { headers: { 'Accept': 'application/json' } })
            .then(function (res) { return res.ok ? res.json() : null; })
            .then(function (body) {
                destroyChart();
                if (!body || typeof Chart === 'undefined') {
                    return;
                }
                chart = new Chart(canvas.getContext('2d'), installTicks(body.config));
                chartId = body.id;
            });
    }

    function swapRegion(html) {
        var region = document.getElementById('explorerRegion');
        if (region) {
            region.outerHTML = html;
        }
        return syncChart();
    }

    function post(path, expression) {
        var body = new URLSearchParams();
        if (expression !== undefined) {
            body.set('expression', expression);
        }
        return fetch(api + path, { method: 'POST', headers: { 'Accept': 'text/html' }, body: body })
            .then(function (res) { return res.text(); })
            .then(swapRegion);
    }

    function refresh() {
        return fetch(api + '/view?render=html', { headers: { 'Accept': 'text/html' } })
            .then(function (res) { return res.text(); })
            .then(swapRegion);
    }

    document.getElementById('expressionForm').addEventListener('submit', function (event) {
        event.preventDefault();
        post('/submit', input.value);
    });

    document.querySelectorAll('[data-action]').forEach(function (button) {
        if (button.type === 'submit') {
            return;
        }
        button.addEventListener('click', function () {
            var action = button.getAttribute('data-action');
            if (action === 'reset') {
                input.value = '';
                post('/reset');
                return;
            }
            post('/' + action, input.value);
        });
    });

    document.querySelectorAll('[data-preset]').forEach(function (button) {
        button.addEventListener('click', function () {
            input.value = button.getAttribute('data-expression');
            post('/preset/' + encodeURIComponent(button.getAttribute('data-preset')));
        });
    });

    document.getElementById('themeToggle').addEventListener('click', function () {
        var dark = document.documentElement.classList.toggle('dark');
        var icon = document.getElementById('themeIcon');
        icon.classList.toggle('fa-moon', !dark);
        icon.classList.toggle('fa-sun', dark);
        destroyChart();
        post('/theme');
    });

    function connect() {
        var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
        var socket = new WebSocket(scheme + location.host + api + '/ws');
        socket.onmessage = function (event) {
            var message = JSON.parse(event.data);
            if (message.type !== 'VIEW' || message.data.loading) {
                return;
            }
            var dark = message.data.theme === 'dark';
            if (document.documentElement.classList.contains('dark') !== dark) {
                document.documentElement.classList.toggle('dark', dark);
                destroyChart();
            }
            if ((message.data.chartId || '') !== chartId || !document.getElementById('results').classList.contains('hidden') !== message.data.resultsVisible) {
                refresh();
            }
        };
        socket.onclose = function () {
            setTimeout(connect, 5000);
        };
    }

    syncChart();
    connect();
})();
</script>
</body>
</html>{{end}}`,
))
