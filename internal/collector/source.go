package collector

import (
	"fmt"
	"strings"
)

// Kind 数据源类型
type Kind int

const (
	KindWeb Kind = iota
	KindFeed
	KindSocialStub
)

func (k Kind) String() string {
	switch k {
	case KindFeed:
		return "feed"
	case KindSocialStub:
		return "social_stub"
	default:
		return "web"
	}
}

const defaultSocialName = "Social Feed"

// Source 规范化后的数据源，只在一次聚合调用内使用
type Source struct {
	Name string
	Kind Kind
	URL  string
}

// ParseKind 将配置中的 type 字符串映射为 Kind；未知值按 web 处理
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rss", "feed", "atom":
		return KindFeed
	case "social_stub":
		return KindSocialStub
	default:
		return KindWeb
	}
}

// Normalize 将配置中的原始条目（URL 字符串或结构化记录）转换为 Source，
// 保持原始顺序；无法识别的条目直接丢弃。
func Normalize(raw []any) []Source {
	out := make([]Source, 0, len(raw))
	for _, r := range raw {
		src, ok := normalizeOne(r)
		if !ok {
			continue
		}
		out = append(out, src)
	}
	return out
}

func normalizeOne(r any) (Source, bool) {
	switch v := r.(type) {
	case string:
		u := strings.TrimSpace(v)
		if u == "" {
			return Source{}, false
		}
		return Source{Name: u, Kind: KindWeb, URL: u}, true
	case Source:
		return v, true
	case map[string]any:
		return fromRecord(v), true
	case map[string]string:
		rec := make(map[string]any, len(v))
		for k, s := range v {
			rec[k] = s
		}
		return fromRecord(rec), true
	default:
		return Source{}, false
	}
}

// fromRecord 读取 name / type(kind) / url 字段；type 缺省为 web
func fromRecord(rec map[string]any) Source {
	u := field(rec, "url")
	kindStr := field(rec, "type")
	if kindStr == "" {
		kindStr = field(rec, "kind")
	}
	src := Source{
		Name: field(rec, "name"),
		Kind: ParseKind(kindStr),
		URL:  u,
	}
	if src.Name == "" {
		if src.Kind == KindSocialStub {
			src.Name = defaultSocialName
		} else {
			src.Name = u
		}
	}
	return src
}

func field(rec map[string]any, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
