package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ProbeStage names the step of a health probe that failed.
type ProbeStage string

const (
	// ProbeStageConnect means the client could not be built for the address.
	ProbeStageConnect ProbeStage = "connect"
	// ProbeStageHealth means the endpoint never reported SERVING in time.
	ProbeStageHealth ProbeStage = "health"
)

// ProbeError reports which step of DialWithHealth failed for which address.
type ProbeError struct {
	Addr  string
	Stage ProbeStage
	Err   error
}

func (e *ProbeError) Error() string {
	if e == nil {
		return "gRPC health probe failed"
	}
	return fmt.Sprintf("gRPC health probe %s (%s): %v", e.Addr, e.Stage, e.Err)
}

func (e *ProbeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ClientOptions returns plaintext dial options with OTel client stats.
func ClientOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// DialWithHealth opens a client to addr and waits up to timeout for its
// overall health status to be SERVING. On failure the client is closed and a
// *ProbeError is returned.
func DialWithHealth(ctx context.Context, addr string, timeout time.Duration, logf func(string, ...any), opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(opts) == 0 {
		opts = ClientOptions()
	}

	conn, err := gogrpc.NewClient(addr, opts...)
	if err != nil {
		return nil, &ProbeError{Addr: addr, Stage: ProbeStageConnect, Err: err}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := WaitForHealth(ctx, conn, "", logf); err != nil {
		_ = conn.Close()
		return nil, &ProbeError{Addr: addr, Stage: ProbeStageHealth, Err: err}
	}
	return conn, nil
}
