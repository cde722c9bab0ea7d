// Package scene is a small in-memory scene store: layers of path-addressed specs,
// and stages that compose a root layer with sublayers.
//
// Layers and stages are resources of a stagewatch.Adapter. A stage owns its root
// layer, so the root layer dies with the stage. Every read is total: once a
// resource is finalized it reads as empty, false or zero instead of failing,
// which lets stagewatch notifications re-evaluate queries after any mutation.
//
// The store is not safe for concurrent use.
package scene
