package provisioning

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	awsplatform "github.com/imamik/aistack/internal/platform/aws"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestConsoleObserver_WithFieldsCarriesContext(t *testing.T) {
	buf := captureLog(t)

	obs := NewConsoleObserver().WithFields(map[string]string{"stack": "teststack"})
	obs.Event(Event{Type: EventResourceCreated, Phase: "compute", Message: "instance created"})

	out := buf.String()
	assert.Contains(t, out, "resource.created")
	assert.Contains(t, out, "[compute]")
	assert.Contains(t, out, "stack=teststack")
}

func TestNewContext_ObserverTagsEventsWithStack(t *testing.T) {
	buf := captureLog(t)

	ctx := NewContext(context.Background(), testConfig(), &awsplatform.MockClient{})
	LogResourceCreating(ctx.Observer, "keypair", "key pair", "teststack-key")

	assert.Contains(t, buf.String(), "stack=teststack")
}
