package service

import "fmt"

const safeContentRules = "Keep it safe for kids: no gore, no blood, no sexual content, no hate, no real-world violence. Avoid text or logos."

func portraitPrompt(styleKeywords, description string) string {
	return fmt.Sprintf(
		"Create a single character portrait for a fantasy battle game. %s Style keywords: %s. Character description: %s. Do not render any text or letters. Keep the background clean.",
		safeContentRules, styleKeywords, description,
	)
}

func analyzePrompt() string {
	return "You are a game stat analyst. Look only at the provided character portrait. " +
		"Output strict JSON with keys: {\"attack\":0-100,\"defense\":0-100,\"magic\":0-100,\"mana\":0-100,\"speed\":0-100,\"summary\":\"...\"}. " +
		"Rate each stat from the visuals alone. The summary must describe the character's fighting character in 60 characters or less, in the same language as the description. " +
		"Output the JSON only, no prose."
}

func judgePrompt(storyMin, storyMax int) string {
	return fmt.Sprintf(
		"You are an impartial battle judge. Use only the visuals from the two images. Do not invent names or use any text hints. "+
			"Output strict JSON in Japanese with keys: {\"winner\":\"A\"|\"B\",\"story\":\"...\"}. "+
			"The story must be %d-%d Japanese characters, use placeholders {A} and {B} for names, and must be safe for elementary school kids. %s",
		storyMin, storyMax, safeContentRules,
	)
}

func battleScenePrompt() string {
	return "Create a dynamic, close and evenly matched battle scene featuring the two provided characters. " +
		"The first reference image is Character A and the second reference image is Character B. " +
		"Neither character should look clearly winning yet; make it a tight clash with both pushing back. " +
		"Use the reference images only for character identity (colors, clothing, species, silhouettes) and ignore their original pose or facial expression. " +
		"Choose fresh, original poses and expressions from scratch that fit the scene. Keep it kid-safe. " +
		safeContentRules + " No text or logos. Both characters must be visible."
}

func victoryScenePrompt(winnerLabel, loserLabel string) string {
	return fmt.Sprintf(
		"Create a decisive victory scene featuring the two provided characters. "+
			"The first reference image is Character A and the second reference image is Character B. "+
			"Character %s must be the winner, centered and triumphant. Character %s must look clearly defeated (e.g., staggered, disarmed, or on the ground), while remaining kid-safe. "+
			"Use the reference images only for character identity (colors, clothing, species, silhouettes) and ignore their original pose or facial expression. "+
			"Choose fresh, original poses and expressions from scratch that fit the scene. %s No text or logos. Both characters must be visible.",
		winnerLabel, loserLabel, safeContentRules,
	)
}
