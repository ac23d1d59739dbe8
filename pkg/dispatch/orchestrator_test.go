package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_Success(t *testing.T) {
	reg := NewRegistry(nil)
	h := newFake("students", "student", "students")
	h.rows = []Row{
		{"id": 1, "name": "Ada"},
		{"id": 2, "name": "Grace"},
	}
	reg.Register(h)

	o := NewOrchestrator(reg)
	result := o.Run(context.Background(), queryState("list all students"))

	require.NotNil(t, result)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "students", result.Mode)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(result.Answer), "Source: students service"),
		"answer must end with the attribution line, got: %q", result.Answer)
	assert.Equal(t, phaseDone, result.Debug["dispatch_state"])
	assert.Equal(t, 2, result.Debug["row_count"])
	assert.NotEmpty(t, result.Debug["table"])
	assert.NotEmpty(t, result.Debug["flat"])
	assert.Equal(t, 1, h.fetched)
}

func TestOrchestrator_FallbackModeWhenNothingMatches(t *testing.T) {
	reg := NewRegistry(nil)
	h := newFake("assets", "asset")
	reg.Register(h)

	o := NewOrchestrator(reg, WithFallbackMode("assets"))
	result := o.Run(context.Background(), queryState("tell me something"))

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "assets", result.Mode)
}

func TestOrchestrator_NoHandlerEvenForFallback(t *testing.T) {
	o := NewOrchestrator(NewRegistry(nil))
	result := o.Run(context.Background(), queryState("list students"))

	require.NotNil(t, result)
	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Answer, "No data source is available")
	assert.Equal(t, phaseError, result.Debug["dispatch_state"])
}

func TestOrchestrator_DispatchErrorSurfacedVerbatim(t *testing.T) {
	reg := NewRegistry(nil)
	h := newFake("assets", "asset", "assets")
	h.err = NewError("upstream returned status 503").
		WithEndpoint("fetch", "http://inventory.internal:8080/api/assets")
	reg.Register(h)

	o := NewOrchestrator(reg, WithFallbackMode("assets"))
	result := o.Run(context.Background(), queryState("list assets"))

	require.NotNil(t, result)
	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Answer, "upstream returned status 503")
	assert.Equal(t, phaseError, result.Debug["dispatch_state"])

	endpoints, ok := result.Debug["endpoints"].(map[string]string)
	require.True(t, ok, "endpoints missing from debug metadata")
	assert.Contains(t, endpoints["fetch"], "/api/assets")
}

func TestOrchestrator_UnexpectedErrorIsGeneric(t *testing.T) {
	reg := NewRegistry(nil)
	h := newFake("events", "event", "events")
	h.err = errors.New("pq: connection reset while reading tuple")
	reg.Register(h)

	o := NewOrchestrator(reg, WithFallbackMode("events"))
	result := o.Run(context.Background(), queryState("list events"))

	assert.Equal(t, StatusError, result.Status)
	assert.NotContains(t, result.Answer, "pq:", "raw internals must not leak to the user")
	assert.Contains(t, result.Answer, "unexpected error")
	assert.Contains(t, result.Debug["internal_error"], "connection reset")
}

func TestOrchestrator_RecoversFromHandlerPanic(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&panicHandler{fakeHandler: *newFake("students", "students")})

	o := NewOrchestrator(reg)
	result := o.Run(context.Background(), queryState("list students"))

	require.NotNil(t, result)
	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Answer, "unexpected error")
}

type panicHandler struct {
	fakeHandler
}

func (p *panicHandler) RenderTable(rows []Row) string {
	panic("renderer blew up")
}
