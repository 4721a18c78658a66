package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownCategory 请求的分类不在配置中
var ErrUnknownCategory = errors.New("unknown category")

// Catalog 分类 → 原始数据源条目，保持配置文件中的分类顺序。
// 条目保留原始形态（URL 字符串或结构化记录），由 collector.Normalize 统一处理。
type Catalog struct {
	order   []string
	sources map[string][]any
}

// Categories 按配置文件顺序返回分类名
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Sources 返回某个分类的原始数据源条目
func (c *Catalog) Sources(category string) ([]any, error) {
	src, ok := c.sources[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return src, nil
}

func (c *Catalog) add(category string, entries []any) {
	if _, ok := c.sources[category]; !ok {
		c.order = append(c.order, category)
	}
	c.sources[category] = entries
}

// LoadCatalog 读取数据源配置文件，按扩展名选择 YAML 或 JSON
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAMLCatalog(data)
	default:
		return ParseJSONCatalog(data)
	}
}

// ParseJSONCatalog 逐个 token 解码顶层对象，以保留分类顺序
func ParseJSONCatalog(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode catalog: top level must be an object")
	}

	cat := &Catalog{sources: make(map[string][]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode catalog: unexpected token %v", tok)
		}

		var entries []any
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("decode catalog category %q: %w", key, err)
		}
		cat.add(key, entries)
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return cat, nil
}

// ParseYAMLCatalog 通过 yaml.Node 遍历顶层 mapping，以保留分类顺序
func ParseYAMLCatalog(data []byte) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	cat := &Catalog{sources: make(map[string][]any)}
	if len(root.Content) == 0 {
		return cat, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode catalog: top level must be a mapping")
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value

		var entries []any
		if err := top.Content[i+1].Decode(&entries); err != nil {
			return nil, fmt.Errorf("decode catalog category %q: %w", key, err)
		}
		cat.add(key, entries)
	}
	return cat, nil
}
