package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/performance"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0, logging.NewDiscardLogger(), performance.NewTracker(nil), metrics.NewCollector("test"))
}

func TestClient_GenerateTruthTable_Success(t *testing.T) {
	// Arrange
	var gotBody map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EndpointTruthTable, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"success":true,"expression":"A&B","variables":["A","B"],"num_variables":2,
			"truth_table":[{"A":0,"B":0,"output":false},{"A":0,"B":1,"output":false},
			{"A":1,"B":0,"output":false},{"A":1,"B":1,"output":true}]}`))
	})

	// Act
	payload, err := client.GenerateTruthTable(context.Background(), "A&B")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "A&B", gotBody["expression"])
	assert.Equal(t, []string{"A", "B"}, payload.Variables)
	require.Len(t, payload.Rows, 4)
	assert.True(t, payload.Rows[3].Output)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GenerateKmap(context.Background(), "A")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackendStatus))
	assert.Equal(t, "Server error: 500", UserMessage(err, "fallback"))
}

func TestClient_EnvelopeFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"with text", `{"success":false,"error":"Invalid expression: A&&"}`, "Invalid expression: A&&"},
		{"without text", `{"success":false}`, FallbackEnvelopeMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GenerateVerilog(context.Background(), "A&&")

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEnvelope))
			assert.Equal(t, tt.want, UserMessage(err, "fallback"))
		})
	}
}

func TestClient_MalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing success", `{"variables":["A"]}`},
		{"wrong success type", `{"success":"yes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GenerateTruthTable(context.Background(), "A")

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode))
			assert.Equal(t, "Failed to generate truth table", UserMessage(err, "Failed to generate truth table"))
		})
	}
}

func TestClient_VerilogWaveforms(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"verilog_code":"module m;","simulation_output":"ok",
			"waveform_data":{"A":{"name":"A","times":[0,5,10],"values":[0,1,0]}}}`))
	})

	payload, err := client.GenerateVerilog(context.Background(), "A")

	require.NoError(t, err)
	assert.Equal(t, "module m;", payload.Code)
	require.Len(t, payload.Waveforms, 1)
	assert.Equal(t, []float64{0, 5, 10}, payload.Waveforms[0].Times)
}

func TestClient_KmapWithoutMap(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"variables":["A","B","C","D","E"],"kmap":null,"simplified_expression":"A"}`))
	})

	payload, err := client.GenerateKmap(context.Background(), "A|B|C|D|E")

	require.NoError(t, err)
	assert.Nil(t, payload.KMap)
	assert.Equal(t, "A", payload.Simplified)
}

func TestClient_PingAndIndex(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"message":"Boolean Expression Solver API","endpoints":{"/generate_kmap":"K-map"}}`))
	})

	require.NoError(t, client.Ping(context.Background()))
	index, err := client.Index(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Boolean Expression Solver API", index.Message)
	assert.Contains(t, index.Endpoints, "/generate_kmap")
}

func TestClient_PingAcceptsAnyTwoHundred(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`plain text`))
	})

	assert.NoError(t, client.Ping(context.Background()))
}

func TestClient_PingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	client := NewClient(url, 0, logging.NewDiscardLogger(), performance.NewTracker(nil), nil)

	err := client.Ping(context.Background())

	assert.Error(t, err)
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
}

func TestClient_PingNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	assert.ErrorIs(t, client.Ping(context.Background()), ErrBackendStatus)
}
