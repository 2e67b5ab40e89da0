package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	recording := &RecordingAPI{}
	scoped := NewScopedAPI("examtopics", NewScopedAPI("client", recording))

	scoped.ReportBroken("discover", "param")
	scoped.ReportWarning("extract")
	scoped.ReportCount("pages", 3)

	broken := recording.Reports("broken", "")
	require.Len(t, broken, 1)
	require.Equal(t, "examtopics: client: discover", broken[0].Id)
	require.Equal(t, []any{"param"}, broken[0].Params)

	require.Len(t, recording.Reports("warning", "extract"), 1)
	require.Len(t, recording.Reports("count", "pages"), 1)
	require.Empty(t, recording.Reports("debug", ""))
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	recording := &RecordingAPI{}
	client := resty.New()
	InstrumentResty(client, recording)

	_, err := client.R().SetContext(context.Background()).Get(server.URL)
	require.NoError(t, err)

	require.Len(t, recording.Reports("debug", report_resty_request), 1)
	responses := recording.Reports("debug", report_resty_response)
	require.Len(t, responses, 1)
	require.Equal(t, uint64(1), responses[0].Params[0])
}

func TestSetupWithoutExporters(t *testing.T) {
	tel, err := Setup(context.Background(), "test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
