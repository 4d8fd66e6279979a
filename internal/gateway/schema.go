package gateway

import "google.golang.org/genai"

func scriptSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	count := int64(ScriptCount)

	slide := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"slideNumber":       {Type: genai.TypeInteger},
			"visualDescription": str(),
			"headline":          str(),
			"body":              str(),
		},
		Required: []string{"slideNumber", "headline", "body"},
	}
	script := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":  str(),
			"hook":   str(),
			"body":   str(),
			"cta":    str(),
			"slides": {Type: genai.TypeArray, Items: slide},
		},
		Required: []string{"title", "hook", "body", "cta"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"scripts":     {Type: genai.TypeArray, Items: script, MinItems: &count, MaxItems: &count},
			"imagePrompt": str(),
		},
		Required: []string{"scripts", "imagePrompt"},
	}
}
