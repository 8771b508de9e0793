package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/bayleafwalker/forge-core/internal/catalog"
	"github.com/bayleafwalker/forge-core/internal/repository"
)

func main() {
	var listenAddr string
	var catalogPath string
	flag.StringVar(&listenAddr, "listen", ":50051", "address to listen on")
	flag.StringVar(&catalogPath, "catalog", "catalog.yaml", "YAML release catalog to serve")
	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	logger := zap.New(zap.UseFlagOptions(&opts)).WithName("catalog")

	repo, err := repository.LoadCatalogFile(catalogPath)
	if err != nil {
		logger.Error(err, "unable to load catalog", "path", catalogPath)
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		panic(fmt.Errorf("listen %s: %w", listenAddr, err))
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(catalog.LoggingInterceptor(logger)))
	catalog.RegisterCatalogServer(grpcServer, catalog.NewServer(repo))

	logger.Info("serving release catalog", "address", lis.Addr().String(), "modules", len(repo.Modules()))
	if err := grpcServer.Serve(lis); err != nil {
		panic(fmt.Errorf("grpc serve: %w", err))
	}
}
