package catalog

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/semver"
)

// ErrMalformedResponse is returned for answers without a boolean "found".
var ErrMalformedResponse = errors.New("malformed response")

// RemoteRepository implements repository.Repository against a remote
// ReleaseCatalog. Any RPC failure or malformed answer is returned as an
// error; only an explicit "found": false answer is reported as not found.
type RemoteRepository struct {
	conn grpc.ClientConnInterface
}

func NewRemote(conn grpc.ClientConnInterface) *RemoteRepository {
	return &RemoteRepository{conn: conn}
}

func (r *RemoteRepository) Resolve(ctx context.Context, dep forge.Dependency) (*forge.Metadata, bool, error) {
	req, err := structpb.NewStruct(map[string]any{
		"module": dep.Name.String(),
		"range":  dep.Range.String(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("catalog: resolve %s: %w", dep, err)
	}
	m, found, err := r.call(ctx, resolveMethod, req)
	if err != nil {
		return nil, false, fmt.Errorf("catalog: resolve %s: %w", dep, err)
	}
	return m, found, nil
}

func (r *RemoteRepository) Lookup(ctx context.Context, name forge.ModuleName, version semver.Version) (*forge.Metadata, bool, error) {
	req, err := structpb.NewStruct(map[string]any{
		"module":  name.String(),
		"version": version.String(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("catalog: lookup %s@%s: %w", name, version, err)
	}
	m, found, err := r.call(ctx, lookupMethod, req)
	if err != nil {
		return nil, false, fmt.Errorf("catalog: lookup %s@%s: %w", name, version, err)
	}
	return m, found, nil
}

func (r *RemoteRepository) call(ctx context.Context, method string, req *structpb.Struct) (*forge.Metadata, bool, error) {
	resp := new(structpb.Struct)
	if err := r.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, false, err
	}
	fields := resp.GetFields()
	found, ok := fields["found"].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return nil, false, ErrMalformedResponse
	}
	if !found.BoolValue {
		return nil, false, nil
	}
	m, err := forge.ParseMetadata([]byte(fields["metadata"].GetStringValue()))
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}
