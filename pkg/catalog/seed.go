package catalog

// seedCreatedAt keeps the seed dataset stable across runs; real entities get
// wall-clock timestamps at creation.
const seedCreatedAt int64 = 1700000000000

// SeedEntities returns the fixed starter dataset used when no snapshot exists
// or the stored one cannot be parsed. Relations are recorded on both sides,
// matching the symmetric-link invariant.
func SeedEntities() []*Entity {
	return []*Entity{
		{
			ID:        "seed-proj-neon",
			Type:      TypeProject,
			Title:     "Neon Tokyo 2099",
			Content:   "Cyberpunk cityscape series. Rain-slick streets, holographic billboards, perpetual dusk.",
			Tags:      []string{"cyberpunk", "city", "series"},
			CreatedAt: seedCreatedAt,
			RelatedIDs: []string{
				"seed-char-kira",
				"seed-prompt-alley",
			},
		},
		{
			ID:        "seed-char-kira",
			Type:      TypeCharacter,
			Title:     "Kira",
			Content:   "Courier with a chrome arm and a debt she does not talk about. Appears across the Neon Tokyo set.",
			Tags:      []string{"protagonist", "cyberpunk"},
			CreatedAt: seedCreatedAt,
			RelatedIDs: []string{
				"seed-proj-neon",
			},
		},
		{
			ID:        "seed-prompt-alley",
			Type:      TypePrompt,
			Title:     "Neon Alley",
			Content:   "A narrow alley at night, neon kanji signage, steam from street vendors, cinematic lighting, 35mm.",
			Tags:      []string{"prompt", "night", "neon"},
			CreatedAt: seedCreatedAt,
			Metadata: map[string]string{
				"model":  "sdxl",
				"params": "steps=30 cfg=7",
			},
			RelatedIDs: []string{
				"seed-proj-neon",
			},
		},
		{
			ID:         "seed-tool-upscale",
			Type:       TypeTool,
			Title:      "Upscaler",
			Content:    "4x latent upscale pass used on final renders.",
			Tags:       []string{"tool", "postprocess"},
			CreatedAt:  seedCreatedAt,
			RelatedIDs: []string{},
		},
	}
}
