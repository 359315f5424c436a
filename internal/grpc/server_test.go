package grpc_test

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	grpcserver "github.com/spbu-ds-practicum-2025/bank-backoffice/internal/grpc"
)

const bufSize = 1024 * 1024

// mockPinger fails while down is set
type mockPinger struct {
	down  atomic.Bool
	calls atomic.Int32
}

func (m *mockPinger) Ping(ctx context.Context) error {
	m.calls.Add(1)
	if m.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func startServer(t *testing.T, pinger grpcserver.Pinger, interval time.Duration) (*grpcserver.Server, healthpb.HealthClient) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv := grpcserver.NewServer(pinger, logger, interval)
	lis := bufconn.Listen(bufSize)
	go func() {
		if err := srv.Serve(lis); err != nil {
			t.Logf("grpc server error: %v", err)
		}
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufnet: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return srv, healthpb.NewHealthClient(conn)
}

func checkStatus(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.Status
}

func TestHealth_FollowsDatabasePing(t *testing.T) {
	pinger := &mockPinger{}
	srv, client := startServer(t, pinger, time.Hour)

	if got := checkStatus(t, client, grpcserver.ServiceName); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("before first check: %v", got)
	}

	srv.Refresh(context.Background())
	for _, service := range []string{"", grpcserver.ServiceName} {
		if got := checkStatus(t, client, service); got != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("service %q: %v, want SERVING", service, got)
		}
	}

	pinger.down.Store(true)
	srv.Refresh(context.Background())
	if got := checkStatus(t, client, grpcserver.ServiceName); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("after failed ping: %v, want NOT_SERVING", got)
	}
}

func TestHealth_WatchRefreshesPeriodically(t *testing.T) {
	pinger := &mockPinger{}
	srv, client := startServer(t, pinger, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Watch(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for pinger.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected periodic pings, got %d", pinger.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := checkStatus(t, client, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
