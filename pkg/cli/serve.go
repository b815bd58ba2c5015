package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/funvibe/switchcase/internal/binding"
	"github.com/funvibe/switchcase/internal/callpoint"
	"github.com/funvibe/switchcase/internal/catalog"
	"github.com/funvibe/switchcase/internal/config"
	"github.com/funvibe/switchcase/internal/enums"
	"github.com/funvibe/switchcase/internal/resolver"
	"github.com/funvibe/switchcase/internal/rpc"
)

func newServeCmd(e *env) *cobra.Command {
	var addr, db string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the Dispatch gRPC service",
		Long: `serve binds the call points of the manifest, plus those stored in the
catalog when --db is given, and answers Dispatch requests until interrupted.
A manifest call point shadows a catalog entry with the same id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defs, src, err := serveDefinitions(ctx, e, db)
			if err != nil {
				return err
			}
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return serve(ctx, e, lis, defs, src)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultListenAddr, "listen address")
	cmd.Flags().StringVar(&db, "db", "", "sqlite catalog with additional call points")
	return cmd
}

// serveDefinitions collects the call points to serve. A missing manifest is
// only an error when there is no catalog either.
func serveDefinitions(ctx context.Context, e *env, db string) ([]callpoint.Definition, resolver.ConstantSource, error) {
	var (
		defs []callpoint.Definition
		src  resolver.ConstantSource
	)
	m, _, err := e.loadManifest()
	switch {
	case err == nil:
		if defs, err = m.Definitions(); err != nil {
			return nil, nil, err
		}
		src = m.Source()
	case db == "":
		return nil, nil, err
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
		src = enums.Chain{enums.ProtoRegistry{}, enums.NewGoPackages(cwd)}
	}

	if db != "" {
		cat, err := catalog.Open(ctx, db, catalog.WithLogger(e.logger()))
		if err != nil {
			return nil, nil, err
		}
		defer cat.Close()
		stored, err := cat.List(ctx)
		if err != nil {
			return nil, nil, err
		}
		declared := make(map[string]bool, len(defs))
		for _, d := range defs {
			declared[d.ID] = true
		}
		for _, d := range stored {
			if !declared[d.ID] {
				defs = append(defs, d)
			}
		}
	}
	return defs, src, nil
}

// serve binds defs and serves Dispatch on lis until ctx is done.
func serve(ctx context.Context, e *env, lis net.Listener, defs []callpoint.Definition, src resolver.ConstantSource) error {
	cache := binding.NewCache(binding.WithLogger(e.logger()))
	if err := cache.Preload(ctx, defs, src); err != nil {
		lis.Close()
		return err
	}
	s, err := rpc.NewServer(cache, src, rpc.WithLogger(e.logger()))
	if err != nil {
		lis.Close()
		return err
	}
	g := grpc.NewServer()
	s.Register(g)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			g.GracefulStop()
		case <-done:
		}
	}()

	fmt.Fprintf(e.stdout, "Serving %d call points on %s\n", cache.Len(), lis.Addr())
	if err := g.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
