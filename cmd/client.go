package cmd

import (
	"github.com/lepinkainen/fakecheck/config"
	"github.com/lepinkainen/fakecheck/predict"
	"github.com/lepinkainen/fakecheck/types"
	"github.com/rs/zerolog"
)

func optionsFrom(appCtx *types.AppContext) *config.Options {
	if appCtx == nil || appCtx.Options == nil {
		return config.Default()
	}
	return appCtx.Options
}

// newClient builds the prediction client every command uploads through
func newClient(appCtx *types.AppContext, log zerolog.Logger) *predict.Client {
	opts := optionsFrom(appCtx)
	return predict.NewClient(opts.Endpoint,
		predict.WithField(opts.Field),
		predict.WithTimeout(opts.Timeout),
		predict.WithLogger(log),
		predict.WithUserAgent("fakecheck/"+appCtx.VersionOrDefault()),
	)
}
