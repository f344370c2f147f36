package domain

import "math/rand"

// Style is one entry of the fixed pool a portrait style is drawn from at
// submission time.
type Style struct {
	ID     string
	Label  string
	Prompt string
}

var StylePool = []Style{
	{
		ID:     "hardboiled",
		Label:  "ハードボイルド",
		Prompt: "hard-boiled pulp illustration, cinematic lighting, gritty textures, dramatic shadows",
	},
	{
		ID:     "deformed",
		Label:  "デフォルメ",
		Prompt: "cute chibi proportions, big expressive eyes, rounded shapes, playful color palette",
	},
	{
		ID:     "real",
		Label:  "リアル",
		Prompt: "realistic fantasy portrait, detailed materials, lifelike lighting, high clarity",
	},
	{
		ID:     "storybook",
		Label:  "絵本",
		Prompt: "storybook illustration, soft brush strokes, warm pastel palette, gentle atmosphere",
	},
	{
		ID:     "anime",
		Label:  "アニメ",
		Prompt: "anime illustration, clean line art, vibrant highlights, dynamic pose",
	},
	{
		ID:     "ink",
		Label:  "水墨",
		Prompt: "ink wash painting style, sumi-e textures, flowing brush lines, restrained colors",
	},
}

func RandomStyle() Style {
	return StylePool[rand.Intn(len(StylePool))]
}
