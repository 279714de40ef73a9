// Package sptree implements a depth-bounded 2ᵈ-tree ("SPTree") over a
// low-dimensional point cloud, rebuilt once per gradient-engine iteration,
// and the Barnes–Hut multipole approximation of repulsive forces that the
// gradient engine evaluates against it.
//
// 🚀 Why an arena instead of a pointer tree?
//
//	Children are int32 indices into a single, growable node slice rather
//	than owning pointers. This removes lifetime questions (no node may
//	outlive its owning SPTree — see Reset), gives a cheap clear-and-reuse
//	cycle between iterations (truncate length to zero, keep capacity), and
//	localizes cache behavior during the hot repulsion traversal — the same
//	flat-buffer idiom github.com/katalvlaran/lvlath/matrix.Dense uses for
//	its backing storage, and github.com/katalvlaran/lvlath/tsp's bbEngine
//	uses for its dense distance buffer.
//
// The root always lives at arena index 0 and is never treated as a
// meaningful center-of-mass summary (only its children are traversed); 0
// doubles as the "empty child slot" sentinel, which is safe because no
// node is ever the child of itself and the root has no parent.
package sptree
