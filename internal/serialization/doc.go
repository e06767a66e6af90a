// Package serialization stores a model's hyperparameters and weights in one file.
//
// The file is a single line of JSON followed by the raw leaf bytes:
//
//	Format Structure:
//	  [Header: flat JSON object of hyperparameters, no newlines]
//	  [1 byte: '\n']
//	  [Leaves: raw little-endian bytes of every parameter, in traversal order]
//	  [32 bytes: SHA-256 of everything above (only with Options.Checksum)]
//
// There are no length prefixes, names or shapes in the weight section.
// The reader rebuilds a skeleton from the hyperparameters with a
// caller-supplied constructor and pours the bytes into its leaves, so the
// skeleton must have the same leaf count, order, shapes and dtypes as the
// model that was saved.
//
// Example usage:
//
//	// Save a model
//	cfg := nn.MLPConfig{Size: 5, Width: 10, Depth: 3, UseTanh: true}
//	model, _ := nn.NewMLP(cfg)
//	model.Init(42)
//	if err := serialization.SaveFile("model.hpw", cfg, model, serialization.DefaultOptions()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back
//	cfg, model, err := serialization.LoadFile("model.hpw", nn.NewMLP, serialization.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
package serialization
