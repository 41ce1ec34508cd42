package loaders

import (
	"path/filepath"
	"sync"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/scene"
)

type meshReference struct {
	referenceCount uint64
	meshes         []*scene.Mesh
}

// MeshCache hands out the same meshes for every reference to one file and
// counts the references. It is safe for concurrent use.
type MeshCache struct {
	loader     *MeshLoader
	mu         sync.Mutex
	registered map[string]*meshReference
}

func NewMeshCache(loader *MeshLoader) *MeshCache {
	return &MeshCache{
		loader:     loader,
		registered: map[string]*meshReference{},
	}
}

// Warm loads path without taking a reference, so a later Acquire finds it.
func (mc *MeshCache) Warm(path string) error {
	key := filepath.Clean(path)
	mc.mu.Lock()
	_, ok := mc.registered[key]
	mc.mu.Unlock()
	if ok {
		return nil
	}

	meshes, err := mc.loader.Load(key)
	if err != nil {
		return err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if _, ok := mc.registered[key]; !ok {
		mc.registered[key] = &meshReference{meshes: meshes}
		core.LogDebug("loaded %d meshes from %s", len(meshes), key)
	}
	return nil
}

// Acquire returns the meshes of path, loading them on first use.
func (mc *MeshCache) Acquire(path string) ([]*scene.Mesh, error) {
	key := filepath.Clean(path)
	if err := mc.Warm(key); err != nil {
		return nil, err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	ref, ok := mc.registered[key]
	if !ok {
		// released by someone else between Warm and here
		meshes, err := mc.loader.Load(key)
		if err != nil {
			return nil, err
		}
		ref = &meshReference{meshes: meshes}
		mc.registered[key] = ref
	}
	ref.referenceCount++
	return ref.meshes, nil
}

// Release drops one reference and forgets the meshes when none are left.
func (mc *MeshCache) Release(path string) {
	key := filepath.Clean(path)
	mc.mu.Lock()
	defer mc.mu.Unlock()
	ref, ok := mc.registered[key]
	if !ok {
		core.LogWarn("mesh cache cannot release %s, it was never acquired", key)
		return
	}
	if ref.referenceCount > 0 {
		ref.referenceCount--
	}
	if ref.referenceCount == 0 {
		delete(mc.registered, key)
	}
}

// References returns how many holders path currently has.
func (mc *MeshCache) References(path string) uint64 {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if ref, ok := mc.registered[filepath.Clean(path)]; ok {
		return ref.referenceCount
	}
	return 0
}

// Len is the number of files held.
func (mc *MeshCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.registered)
}
