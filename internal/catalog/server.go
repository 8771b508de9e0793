package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/repository"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

// Server answers ReleaseCatalog calls from a Repository.
type Server struct {
	repo repository.Repository
}

func NewServer(repo repository.Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	module := stringField(req, "module")
	dep, err := forge.NewDependency(module, stringField(req, "range"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "resolve: %v", err)
	}
	m, found, err := s.repo.Resolve(ctx, dep)
	if err != nil {
		return nil, repositoryStatus(err)
	}
	return response(m, found)
}

func (s *Server) Lookup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := forge.ParseModuleName(stringField(req, "module"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "lookup: %v", err)
	}
	version, err := semver.ParseVersion(stringField(req, "version"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "lookup: %v", err)
	}
	m, found, err := s.repo.Lookup(ctx, name, version)
	if err != nil {
		return nil, repositoryStatus(err)
	}
	return response(m, found)
}

func stringField(req *structpb.Struct, key string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[key].GetStringValue()
}

func response(m *forge.Metadata, found bool) (*structpb.Struct, error) {
	fields := map[string]any{"found": found}
	if found {
		data, err := forge.EncodeMetadata(m)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "encode %s: %v", m.Release(), err)
		}
		fields["metadata"] = string(data)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return out, nil
}

func repositoryStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Errorf(codes.Unavailable, "repository: %v", err)
	}
}

// LoggingInterceptor logs every call with its status code and latency.
func LoggingInterceptor(log logr.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		kv := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
		if code == codes.OK || code == codes.InvalidArgument {
			log.V(1).Info("catalog call", kv...)
		} else {
			log.Error(err, "catalog call failed", kv...)
		}
		return resp, err
	}
}
