package grpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	log := &recLogger{}
	s := NewGRPCServer("", log)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected resp: %v", resp)
	}
	if len(log.msgs) != 1 || log.msgs[0] != "grpc call" {
		t.Fatalf("expected one log line, got %v", log.msgs)
	}
}

func TestLoggingInterceptor_KeepsError(t *testing.T) {
	s := NewGRPCServer("", &recLogger{})
	info := &grpc.UnaryServerInfo{FullMethod: "/x/Y"}
	want := status.Error(codes.NotFound, "unknown service")

	_, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
