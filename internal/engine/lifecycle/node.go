package lifecycle

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/git"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/lock"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/registry"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/core/ports"
)

// NodeID is the unique identifier for the lifecycle controller Graft node.
const NodeID graft.ID = "engine.lifecycle"

func init() {
	graft.Register(graft.Node[*Controller]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.HasherNodeID,
			cas.NodeID,
			lock.NodeID,
			registry.NodeID,
			git.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Controller, error) {
			hasher, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}

			locker, err := graft.Dep[ports.Locker](ctx)
			if err != nil {
				return nil, err
			}

			reg, err := graft.Dep[ports.Registry](ctx)
			if err != nil {
				return nil, err
			}

			prov, err := graft.Dep[ports.Provenance](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(hasher, store, locker, reg, prov, tracer, log), nil
		},
	})
}
