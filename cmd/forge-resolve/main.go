package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/bayleafwalker/forge-core/internal/build"
	"github.com/bayleafwalker/forge-core/internal/catalog"
	"github.com/bayleafwalker/forge-core/internal/forge"
	"github.com/bayleafwalker/forge-core/internal/repository"
	"github.com/bayleafwalker/forge-core/internal/resolver"
)

func main() {
	var catalogPath string
	var remoteAddr string
	var redisAddr string
	var redisPrefix string
	var timeout time.Duration
	var strict bool

	flag.StringVar(&catalogPath, "catalog", "", "YAML release catalog to resolve against")
	flag.StringVar(&remoteAddr, "remote", "", "gRPC release catalog address to resolve against")
	flag.StringVar(&redisAddr, "redis", "", "Redis address used to cache remote answers")
	flag.StringVar(&redisPrefix, "redis-prefix", repository.DefaultCacheConfig().Prefix, "Redis key prefix")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall resolution timeout")
	flag.BoolVar(&strict, "strict", false, "exit with status 3 when any dependency is unresolved or circular")
	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] metadata.json...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := zap.New(zap.UseFlagOptions(&opts))
	if flag.NArg() == 0 || (catalogPath == "") == (remoteAddr == "") {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	code, err := run(ctx, logger, config{
		catalogPath: catalogPath,
		remoteAddr:  remoteAddr,
		redisAddr:   redisAddr,
		redisPrefix: redisPrefix,
		strict:      strict,
		roots:       flag.Args(),
	})
	if err != nil {
		logger.Error(err, "resolution failed")
		os.Exit(1)
	}
	os.Exit(code)
}

type config struct {
	catalogPath string
	remoteAddr  string
	redisAddr   string
	redisPrefix string
	strict      bool
	roots       []string
}

func run(ctx context.Context, logger logr.Logger, cfg config) (int, error) {
	repo, closeRepo, err := openRepository(logger, cfg)
	if err != nil {
		return 0, err
	}
	defer closeRepo()

	res, result, err := resolveFiles(ctx, logger, repo, cfg.roots)
	if err != nil {
		return 0, err
	}
	if err := writeReport(os.Stdout, result); err != nil {
		return 0, err
	}
	if cfg.strict && (!res.Complete() || len(res.Cycles) > 0) {
		return 3, nil
	}
	return 0, nil
}

// resolveFiles resolves the metadata.json files at paths as roots.
func resolveFiles(ctx context.Context, logger logr.Logger, repo repository.Repository, paths []string) (*resolver.Result, *build.BuildResult, error) {
	roots := make([]*forge.Metadata, 0, len(paths))
	files := map[*forge.Metadata]string{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		m, err := forge.DecodeMetadata(f)
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		roots = append(roots, m)
		files[m] = path
	}

	res, err := resolver.NewDefault(repo, resolver.WithLogger(logger.WithName("resolver"))).DeepResolve(ctx, roots...)
	if err != nil {
		return nil, nil, err
	}
	result, err := build.Assemble(res, build.Options{
		File: func(m *forge.Metadata) string { return files[m] },
	})
	if err != nil {
		return nil, nil, err
	}
	return res, result, nil
}

func openRepository(logger logr.Logger, cfg config) (repository.Repository, func(), error) {
	if cfg.catalogPath != "" {
		repo, err := repository.LoadCatalogFile(cfg.catalogPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}

	conn, err := grpc.NewClient(cfg.remoteAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", cfg.remoteAddr, err)
	}
	var repo repository.Repository = catalog.NewRemote(conn)
	if cfg.redisAddr == "" {
		return repo, func() { _ = conn.Close() }, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.redisAddr})
	cacheCfg := repository.DefaultCacheConfig()
	cacheCfg.Prefix = cfg.redisPrefix
	cached := repository.NewCached(repo, rdb, cacheCfg).WithLogger(logger.WithName("cache"))
	return cached, func() {
		_ = errors.Join(rdb.Close(), conn.Close())
	}, nil
}
