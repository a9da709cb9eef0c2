// Package config loads chatgraph settings.
//
// Settings are layered from a YAML or JSON file, an optional .env file and
// CHATGRAPH_* environment variables. Config exposes forgiving typed
// accessors over the merged values; Model turns them into the language
// model settings and retry policy used by the chat nodes.
//
//	cfg, err := config.Load("chatgraph.yaml", ".env")
//	if err != nil {
//	    return err
//	}
//	m := config.ModelFrom(cfg)
//	if err := m.Validate(); err != nil {
//	    return err
//	}
package config
