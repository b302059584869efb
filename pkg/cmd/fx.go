package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		newSession,
		fx.Annotate(clearCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(create, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(dump, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(fetch, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(info, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(initCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(load, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(populate, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(store, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
