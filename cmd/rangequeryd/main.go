// rangequeryd 对外提供区间最小值与最近公共祖先查询的 HTTP 服务.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/wyfcoding/rangequery/app"
	"github.com/wyfcoding/rangequery/config"
	"github.com/wyfcoding/rangequery/handler"
	"github.com/wyfcoding/rangequery/idgen"
	"github.com/wyfcoding/rangequery/logging"
	"github.com/wyfcoding/rangequery/metrics"
	"github.com/wyfcoding/rangequery/service"
)

const serviceName = "rangequeryd"

// version 由构建时通过 -ldflags "-X main.version=..." 注入。
var version = "dev"

func main() {
	var svc *service.Service

	application := app.NewBuilder(serviceName, version).
		WithService(func(conf *config.Config, m *metrics.Metrics, logger *logging.Logger) (app.Registrar, func(), error) {
			if err := idgen.Init(conf.Snowflake); err != nil {
				return nil, nil, err
			}

			svc = service.New(logger, m)
			if err := svc.Preload(context.Background(), conf.Datasets); err != nil {
				return nil, nil, err
			}

			return handler.New(svc), svc.Close, nil
		}).
		WithHealthChecker("registry", func() error {
			if svc == nil {
				return errors.New("registry not initialized")
			}
			return svc.Ready()
		}).
		Build()

	if err := application.Run(); err != nil {
		logging.Error(context.Background(), "service exited abnormally", "error", err)
		os.Exit(1)
	}
}
