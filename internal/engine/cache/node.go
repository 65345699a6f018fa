package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/strata/internal/adapters/config"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/strata/internal/adapters/fs"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/strata/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/strata/internal/adapters/metrics" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/strata/internal/adapters/sgraph"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
)

// NodeID is the unique identifier for the model cache Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			sgraph.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
			metrics.NodeID,
			config.ResolvedNodeID,
		},
		Run: func(ctx context.Context) (*Cache, error) {
			loader, err := graft.Dep[ports.ModelLoader](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			prom, err := graft.Dep[*metrics.Prometheus](ctx)
			if err != nil {
				return nil, err
			}

			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, hasher, log, prom, WithLoadTimeout(cfg.LoadTimeout)), nil
		},
	})
}
