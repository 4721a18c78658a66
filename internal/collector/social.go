package collector

import (
	"context"
	"fmt"
)

// SocialStubFetcher 社交平台尚未接入，只返回一条占位文章
type SocialStubFetcher struct{}

func (s *SocialStubFetcher) Fetch(_ context.Context, src Source, _ int) Result {
	name := src.Name
	if name == "" {
		name = defaultSocialName
	}
	return Result{
		Articles: []Article{{
			Title: fmt.Sprintf("%s connector not configured", name),
			Text: fmt.Sprintf("%s is listed as a source, but direct scraping is disabled. "+
				"Use the official %s API + OAuth and map recent posts/updates here.", name, name),
			URL:    src.URL,
			Source: name,
			Stub:   true,
		}},
		Stages: []Stage{{Name: "social_stub", Status: StageOK}},
	}
}
