package wiremock

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestWireMockE2E exercises the full adapter against a real WireMock
// container. It needs Docker; set WIREMATE_E2E=1 to run it.
func TestWireMockE2E(t *testing.T) {
	if os.Getenv("WIREMATE_E2E") == "" {
		t.Skip("set WIREMATE_E2E=1 to run the WireMock container test")
	}

	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "wiremock/wiremock:3.9.1",
			ExposedPorts: []string{"8080/tcp"},
			WaitingFor:   wait.ForHTTP("/__admin/health").WithPort("8080/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	}
	container, err := testcontainers.GenericContainer(ctx, req)
	require.NoError(t, err)
	defer testcontainers.CleanupContainer(t, container)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)
	port, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)

	m, err := New(ctx, Config{Host: host, Port: port})
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%d", host, port)

	// Stub GET /api/test -> 200 "Hello World".
	id, err := m.CreateStub(ctx, "GET", "/api/test", WithBody("Hello World"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	fetch := func() string {
		resp, err := http.Get(baseURL + "/api/test")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
		return string(body)
	}

	assert.Equal(t, "Hello World", fetch())

	require.NoError(t, m.SeeRequest(ctx, "GET", "/api/test", nil))
	require.NoError(t, m.SeeRequestCount(ctx, 1, map[string]any{"method": "GET", "url": "/api/test"}))

	// Clearing the journal removes the recorded request but not the stub.
	require.NoError(t, m.ClearRequests(ctx))
	require.NoError(t, m.DontSeeRequest(ctx, "GET", "/api/test", nil))

	assert.Equal(t, "Hello World", fetch())

	// A verification failure against a real server includes near misses.
	err = m.SeeRequest(ctx, "GET", "/api/missing", nil)
	var ve *VerificationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "GET /api/missing")
}
