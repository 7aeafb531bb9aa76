package anthropic

// BuildCachedSystemBlocks constructs system content blocks with a
// cache breakpoint set to a 1-hour TTL. The intake stage prompts are
// constant across leads, so every call after the first reads from the
// warm cache.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	return []SystemBlock{
		{
			Text: text,
			CacheControl: &CacheControl{
				TTL: "1h",
			},
		},
	}
}
