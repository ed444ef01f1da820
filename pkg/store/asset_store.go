// Package store 混合空间资源的持久化
package store

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/blendspace-builder/pkg/blendspace"
)

// ErrNotFound 资源不存在
var ErrNotFound = errors.New("asset not found")

const (
	assetProperty = "blendspace"
	indexObject   = "index"
	indexProperty = "blendspaces"
)

// AssetStore 以 gdata 保存混合空间资源
//
// 每个资源以 YAML 形式保存为一个对象属性，对象名由资源路径派生（UUID v5），
// 另有一个索引属性记录所有已保存的路径。gdataManager 为 nil 时只保存在内存中（降级模式）。
type AssetStore struct {
	mu           sync.Mutex
	gdataManager *gdata.Manager
	memory       map[string][]byte
	index        map[string]bool
}

// NewAssetStore 创建资源存储并加载索引
//
// 参数:
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//
// 返回:
//   - *AssetStore: 资源存储
//   - error: 索引无法读取时返回错误
func NewAssetStore(gdataManager *gdata.Manager) (*AssetStore, error) {
	s := &AssetStore{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
		index:        make(map[string]bool),
	}
	if err := s.loadIndex(); err != nil {
		return s, err
	}
	return s, nil
}

// objectKey 由资源路径得到稳定的对象名，只包含字母、数字与下划线
func objectKey(assetPath string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(assetPath))
	return "bs_" + hex.EncodeToString(id[:])
}

// Save 保存混合空间，已存在的同路径资源会被覆盖
func (s *AssetStore) Save(bs *blendspace.BlendSpace) error {
	if bs == nil {
		return errors.New("blend space is nil")
	}
	if bs.Path == "" {
		return errors.New("blend space has no path")
	}

	data, err := yaml.Marshal(bs)
	if err != nil {
		return fmt.Errorf("failed to marshal blend space '%s': %w", bs.Path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gdataManager == nil {
		s.memory[bs.Path] = data
		s.index[bs.Path] = true
		return nil
	}

	if err := s.gdataManager.SaveObjectProp(objectKey(bs.Path), assetProperty, data); err != nil {
		return fmt.Errorf("failed to save blend space '%s': %w", bs.Path, err)
	}
	if !s.index[bs.Path] {
		s.index[bs.Path] = true
		if err := s.saveIndex(); err != nil {
			return err
		}
	}
	log.Printf("[AssetStore] Saved '%s'", bs.Path)
	return nil
}

// Load 按路径加载混合空间
func (s *AssetStore) Load(assetPath string) (*blendspace.BlendSpace, error) {
	s.mu.Lock()
	data, err := s.read(assetPath)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var bs blendspace.BlendSpace
	if err := yaml.Unmarshal(data, &bs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blend space '%s': %w", assetPath, err)
	}
	return &bs, nil
}

// Exists 判断资源是否已保存
func (s *AssetStore) Exists(assetPath string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gdataManager == nil {
		_, ok := s.memory[assetPath]
		return ok
	}
	return s.gdataManager.ObjectPropExists(objectKey(assetPath), assetProperty)
}

// List 返回所有已保存的资源路径（已排序）
func (s *AssetStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.index))
	for p := range s.index {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s *AssetStore) read(assetPath string) ([]byte, error) {
	if s.gdataManager == nil {
		data, ok := s.memory[assetPath]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, assetPath)
		}
		return data, nil
	}

	key := objectKey(assetPath)
	if !s.gdataManager.ObjectPropExists(key, assetProperty) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, assetPath)
	}
	data, err := s.gdataManager.LoadObjectProp(key, assetProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load blend space '%s': %w", assetPath, err)
	}
	return data, nil
}

func (s *AssetStore) loadIndex() error {
	if s.gdataManager == nil || !s.gdataManager.ObjectPropExists(indexObject, indexProperty) {
		return nil
	}

	data, err := s.gdataManager.LoadObjectProp(indexObject, indexProperty)
	if err != nil {
		return fmt.Errorf("failed to load asset index: %w", err)
	}

	var paths []string
	if err := yaml.Unmarshal(data, &paths); err != nil {
		log.Printf("[AssetStore] Warning: asset index is corrupted: %v (starting empty)", err)
		return nil
	}
	for _, p := range paths {
		s.index[p] = true
	}
	return nil
}

func (s *AssetStore) saveIndex() error {
	paths := make([]string, 0, len(s.index))
	for p := range s.index {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	data, err := yaml.Marshal(paths)
	if err != nil {
		return fmt.Errorf("failed to marshal asset index: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(indexObject, indexProperty, data); err != nil {
		return fmt.Errorf("failed to save asset index: %w", err)
	}
	return nil
}
