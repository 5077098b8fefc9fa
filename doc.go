// Package butler is the composition root of a media-library reconciler.
//
// Butler keeps a media library (one folder per movie or show) and a vault of
// markdown notes in step. For every folder that has no note it writes a
// scaffold note; once a month it deletes the folders whose notes say the item
// was watched and is not a keeper.
//
// The domain lives in pkg/core and knows nothing about disks or clocks; the
// filesystem adapters in pkg/adapters/fs provide the library, the note store,
// the markdown injector and the library watcher.
//
// Usage:
//
//	cfg, err := butler.LoadConfig("butler.yaml")
//	if err != nil {
//		return err
//	}
//	rt, err := butler.New(ctx, cfg, butler.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer rt.Close()
//
//	for _, job := range rt.Jobs {
//		report, err := job.Detect(ctx)
//		...
//	}
package butler
