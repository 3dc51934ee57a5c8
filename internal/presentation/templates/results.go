package templates

import "html/template"

var resultTemplates = template.Must(template.New("results").Parse(
	`{{define "banners"}}<div id="banners">
    <div id="errorMessage" class="{{if not .Error.Visible}}hidden {{end}}mb-6 rounded-2xl border-2 border-red-300 bg-red-50 p-4 text-red-700 dark:border-red-700 dark:bg-red-900/30 dark:text-red-300" role="alert">
        <i class="fas fa-exclamation-triangle mr-2"></i><span id="errorText">{{.Error.Message}}</span>
    </div>
    <div id="learningStatus" class="{{if not .Status.Visible}}hidden {{end}}mb-6 rounded-2xl border-2 border-blue-200 bg-blue-50 p-4 text-blue-800 dark:border-blue-800 dark:bg-blue-900/30 dark:text-blue-200" role="status">
        <i class="fas fa-graduation-cap mr-2"></i><span id="statusMessage">{{.Status.Message}}</span>
    </div>
    <div id="loadingIndicator" class="{{if not .Loading}}hidden {{end}}mb-6 text-center text-gray-600 dark:text-gray-300">
        <i class="fas fa-spinner fa-spin mr-2"></i>Processing...
    </div>
</div>{{end}}` +

		`{{define "stats"}}<div id="learningStats" class="grid grid-cols-3 gap-4 text-center">
    <div><div class="text-2xl font-bold" data-stat="expressionsTested">{{.ExpressionsTested}}</div><div class="text-xs uppercase text-gray-500">Expressions Tested</div></div>
    <div><div class="text-2xl font-bold" data-stat="gatesAnalyzed">{{.GatesAnalyzed}}</div><div class="text-xs uppercase text-gray-500">Gates Analyzed</div></div>
    <div><div class="text-2xl font-bold" data-stat="simulationsRun">{{.SimulationsRun}}</div><div class="text-xs uppercase text-gray-500">Simulations Run</div></div>
</div>{{end}}` +

		`{{define "truthTable"}}<section id="truthTableResults" data-section="truthTable">
    <h2 class="mb-4 text-2xl font-bold text-gray-800 dark:text-white">Truth Table <span id="variableCount" class="ml-2 text-sm font-normal text-gray-500 dark:text-gray-400">{{.Caption}}</span></h2>
    <div id="truthTableContainer" class="overflow-x-auto">
    {{- if .Empty}}
        <div class="text-center py-12 text-gray-500 dark:text-gray-400"><i class="fas fa-table text-4xl mb-4"></i><p>No truth table data available</p></div>
    {{- else}}
        <table class="min-w-full bg-white dark:bg-gray-800 rounded-2xl overflow-hidden">
            <thead><tr>
            {{- range .Variables}}<th class="bg-gradient-to-r from-blue-500 to-blue-600 text-white font-bold p-4 text-lg">{{.}}</th>{{end -}}
            <th class="bg-gradient-to-r from-blue-500 to-blue-600 text-white font-bold p-4 text-lg">Output</th>
            </tr></thead>
            <tbody>
            {{- range $i, $row := .Rows}}
                <tr class="{{if $row.Even}}bg-white dark:bg-gray-800{{else}}bg-gray-50 dark:bg-gray-700{{end}}">
                {{- range $row.Cells}}<td class="p-4 text-center border-b border-gray-200 dark:border-gray-600 text-gray-900 dark:text-white">{{.}}</td>{{end -}}
                <td class="{{if $row.High}}bg-gradient-to-r from-green-500 to-green-600{{else}}bg-gradient-to-r from-red-500 to-red-600{{end}} text-white font-bold p-4 text-center" data-output>{{$row.Output}}</td>
                </tr>
            {{- end}}
            </tbody>
        </table>
    {{- end}}
    </div>
</section>{{end}}` +

		`{{define "kmap"}}<section id="kmapResults" data-section="kmap">
    <h2 class="mb-4 text-2xl font-bold text-gray-800 dark:text-white">Karnaugh Map</h2>
    <div id="kmapContainer" class="flex justify-center overflow-x-auto">
    {{- if not .Available}}
        <div class="text-center py-12">
            <i class="fas fa-border-all text-4xl text-gray-400 mb-4"></i>
            <p class="text-gray-600 dark:text-gray-400 text-lg">K-map not available for this expression</p>
            <p class="text-gray-500 dark:text-gray-500 text-sm mt-2">Try an expression with 1-4 variables</p>
        </div>
    {{- else}}
        <table class="border-collapse border-2 border-gray-300 dark:border-gray-600 bg-white dark:bg-gray-800">
            <thead><tr>
                <th class="bg-gradient-to-r from-purple-500 to-purple-600 text-white font-bold p-6 text-lg">{{.Corner}}</th>
                {{- range .Cols}}<th class="bg-gradient-to-r from-purple-500 to-purple-600 text-white font-bold p-6 text-lg">{{.}}</th>{{end}}
            </tr></thead>
            <tbody>
            {{- range .Rows}}
                <tr><th class="bg-gradient-to-r from-purple-500 to-purple-600 text-white font-bold p-6 text-lg">{{.Label}}</th>
                {{- range .Cells}}<td class="{{if .High}}bg-gradient-to-br from-purple-500 via-pink-500 to-red-500 text-white{{else}}bg-white dark:bg-gray-800 text-gray-900 dark:text-white border-2 border-gray-300 dark:border-gray-600{{end}} font-bold p-6 text-center text-lg" data-cell>{{.Glyph}}</td>{{end}}
                </tr>
            {{- end}}
            </tbody>
        </table>
    {{- end}}
    </div>
    {{- if .Available}}{{template "simplification" .Simplification}}{{end}}
</section>{{end}}` +

		`{{define "simplification"}}<div id="simplificationResults" class="mt-8 grid grid-cols-1 lg:grid-cols-2 gap-8">
    <div class="rounded-2xl border-2 border-purple-200 p-6 dark:border-purple-800">
        <h3 class="mb-4 text-xl font-bold text-gray-800 dark:text-white">Prime Implicants <span class="rounded-full bg-purple-500 px-3 py-1 text-sm text-white">Essential</span></h3>
        <div class="space-y-3">
        {{- if .Implicants}}
            {{- range .Implicants}}
            <div class="flex items-center gap-3 rounded-xl border-l-4 border-purple-500 bg-white/80 p-4 dark:bg-gray-800/80" data-implicant>
                <span class="rounded-lg bg-purple-100 px-3 py-1 font-mono text-sm text-purple-600 dark:bg-purple-900 dark:text-purple-300">{{.Label}}</span>
                <code class="flex-1 font-mono text-sm text-gray-800 dark:text-gray-200">{{.Term}}</code>
            </div>
            {{- end}}
        {{- else}}
            <div class="py-6 text-center text-gray-500 dark:text-gray-400">No prime implicants found</div>
        {{- end}}
        </div>
    </div>
    <div class="rounded-2xl border-2 border-green-200 p-6 text-center dark:border-green-800">
        <h3 class="mb-4 text-xl font-bold text-gray-800 dark:text-white">Optimized Expression <span class="rounded-full bg-green-500 px-3 py-1 text-sm text-white">Simplified</span></h3>
        <code id="simplifiedExpression" class="font-mono text-2xl font-bold text-green-600 dark:text-green-400">{{.Simplified}}</code>
        <div class="mt-4 text-sm text-gray-600 dark:text-gray-400">Simplified from: <code id="sourceExpression" class="rounded bg-gray-100 px-3 py-1 font-mono text-xs dark:bg-gray-700">{{.Source}}</code></div>
    </div>
</div>{{end}}` +

		`{{define "verilog"}}<section id="verilogResults" data-section="verilog">
    <div class="grid grid-cols-1 lg:grid-cols-2 gap-8">
        <div>
            <h2 class="mb-4 text-2xl font-bold text-gray-800 dark:text-white">Verilog Code</h2>
            <pre class="overflow-x-auto rounded-2xl bg-gray-900 p-6 text-sm text-green-400"><code id="verilogCode">{{.Code}}</code></pre>
        </div>
        <div>
            <h2 class="mb-4 text-2xl font-bold text-gray-800 dark:text-white">Simulation Output</h2>
            <pre class="overflow-x-auto rounded-2xl bg-gray-900 p-6 text-sm text-gray-100"><code id="simulationOutput">{{.SimulationOutput}}</code></pre>
        </div>
    </div>
    <div class="mt-8">
        <h2 class="mb-4 text-2xl font-bold text-gray-800 dark:text-white">Waveform</h2>
        <div id="waveformContainer" class="relative h-96 rounded-2xl bg-white p-4 dark:bg-gray-800">
        {{- if .ChartID}}
            <canvas id="waveformChart" data-chart-id="{{.ChartID}}"></canvas>
            <noscript><img src="/api/v1/explorer/chart/image?format=png" alt="Waveform" class="mx-auto max-h-full"></noscript>
        {{- else}}
            <div class="flex h-full flex-col items-center justify-center text-center" id="noWaveform">
                <i class="fas fa-wave-square mb-4 text-4xl text-gray-400"></i>
                <p class="text-lg font-semibold text-gray-700 dark:text-gray-300">No Waveform Data Available</p>
                <p class="mt-2 text-sm text-gray-500 dark:text-gray-400">The digital simulation completed successfully, but waveform visualization isn't available.</p>
            </div>
        {{- end}}
        </div>
    </div>
</section>{{end}}` +

		`{{define "region"}}<div id="explorerRegion" data-theme="{{.View.Theme}}" data-loading="{{.View.Loading}}">
{{template "banners" .View}}
<div id="results" class="{{if not .View.ResultsVisible}}hidden{{end}}">
{{- if .TruthTable}}{{template "truthTable" .TruthTable}}{{end}}
{{- if .KMap}}{{template "kmap" .KMap}}{{end}}
{{- if .Verilog}}{{template "verilog" .Verilog}}{{end}}
</div>
{{template "stats" .View.Stats}}
</div>{{end}}`,
))
