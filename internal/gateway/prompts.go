package gateway

import (
	"adforge/internal/models"
	"fmt"
	"strings"
)

const systemBase = `You are a senior creative director and direct-response copywriter.
Produce 5 ad scripts written in Spanish and 1 image prompt written in English.

Scripts:
- The hook is readable in under three seconds and stops the scroll: a provocative question, a surprising fact or a bold claim.
- The call to action is an imperative. Tell the reader exactly what to do.

Image prompt:
- Ground the scene in the buyer's real surroundings for this product. Avoid sci-fi clichés unless the product is technology.
- Any visible text (signs, packaging, overlays) is in Spanish and is spelled out in the prompt.
- Respect the composition of the requested format.

Archetype direction:
- Us vs. Them: contrast outcomes, not technology. The "them" half is dull and stressed, the "us" half is warm and relieved.
- The Skeptic (UGC): amateur phone photo with flash, a real person holding the product close and looking unconvinced.
- Aesthetic/ASMR: macro photography, shallow depth of field, tactile details, minimal background.
- The Ugly Ad: deliberately crude layout, clashing bright colors, huge overlay text, meme energy.
- Founder Story: warm documentary look, someone working on the product behind the scenes.

Carousel format: the image prompt describes ONE continuous panoramic 16:9 scene that reads left to right and is later cut into 4 slides.`

const proModeDirective = "PRO MODE: be sharper, more polarizing and more psychologically precise than usual."

func systemInstruction(proMode bool) string {
	if proMode {
		return proModeDirective + "\n\n" + systemBase
	}
	return systemBase
}

func researchPrompt(req ResearchRequest) string {
	return fmt.Sprintf("Find current trends, competitor angles and viral hooks for the product %q aimed at %q whose pain point is %q. Summarize the insights that matter for an ad campaign.",
		req.ProductName, req.Audience, req.PainPoint)
}

func campaignPrompt(req ScriptRequest) string {
	in := req.Input
	var b strings.Builder
	fmt.Fprintf(&b, "MARKET RESEARCH:\n%s\n\n", req.Research)
	b.WriteString("CAMPAIGN:\n")
	fmt.Fprintf(&b, "Product: %s\n", in.ProductName)
	fmt.Fprintf(&b, "Pain point: %s\n", in.PainPoint)
	fmt.Fprintf(&b, "Audience: %s\n", in.TargetAudience)
	fmt.Fprintf(&b, "Archetype: %s\n", in.Archetype.Value())
	fmt.Fprintf(&b, "Format: %s\n", in.Format.Value())
	fmt.Fprintf(&b, "Tone: %s\n", in.Tone.Value())
	fmt.Fprintf(&b, "%s\n\n", in.ColorDirective())

	b.WriteString("TASK:\n")
	b.WriteString("1. Decide where the buyer is when the pain point hits (kitchen, gym, office, car...).\n")
	fmt.Fprintf(&b, "2. Write 5 distinct scripts in Spanish in the %s tone.\n", in.Tone.Value())
	b.WriteString("3. Write 1 image prompt set in that place. Describe the scene directly, with concrete lighting, textures and props.\n")
	fmt.Fprintf(&b, "The composition must suit the %s format.\n", in.Format.Value())
	if in.Format == models.FormatCarousel {
		b.WriteString("The image prompt describes a wide panoramic scene, a timeline or before/after spread across the canvas rather than one centered object.\n")
	}
	if in.LogoImage != "" {
		b.WriteString("The image prompt states that the brand logo is visible on the product or as a graphic element.\n")
	}
	b.WriteString("\nAnswer with JSON only.")
	return b.String()
}

func refinementPrompt(req ScriptRequest) string {
	in := req.Input
	var b strings.Builder
	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "Product: %s\n", in.ProductName)
	fmt.Fprintf(&b, "Archetype: %s\n", in.Archetype.Value())
	fmt.Fprintf(&b, "Format: %s\n", in.Format.Value())
	fmt.Fprintf(&b, "Tone: %s\n", in.Tone.Value())
	if directive := in.ColorDirective(); directive != "" {
		fmt.Fprintf(&b, "%s\n", directive)
	}
	fmt.Fprintf(&b, "\nPREVIOUS IMAGE PROMPT: %s\n\n", req.Refinement.PreviousImagePrompt)
	fmt.Fprintf(&b, "REQUESTED CHANGE: %q\n\n", req.Refinement.Instruction)
	b.WriteString("TASK:\nRegenerate the JSON.\n")
	b.WriteString("- If the change asks for a different style or less generic output, rewrite the image prompt with niche-specific, realistic detail.\n")
	if in.Format == models.FormatCarousel {
		b.WriteString("- Keep the image prompt a continuous panoramic 16:9 scene.\n")
	}
	b.WriteString("- Keep the scripts consistent with the new direction and the tone.\n")
	return b.String()
}

func editPrompt(prompt string, format models.Format, withLogo bool) string {
	var b strings.Builder
	b.WriteString("You are an image editor.\n")
	b.WriteString("Image 1 shows a specific product.\n")
	if withLogo {
		b.WriteString("Image 2 is a brand logo.\n")
	}
	fmt.Fprintf(&b, "Keep the exact product from image 1, isolate it and place it in this new setting: %q.\n", prompt)
	if withLogo {
		b.WriteString("Place the logo from image 2 clearly on the packaging or as a corner watermark. It must be visible.\n")
	}
	b.WriteString("Do not redraw the product or change its shape, label or details. Change only background and lighting.\n")
	fmt.Fprintf(&b, "Output aspect: %s.", format.Shape())
	return b.String()
}

// LogoScenePrompt asks for a generated scene around a logo when no product
// photo is available.
func LogoScenePrompt(prompt string) string {
	return fmt.Sprintf("Create a scene: %s. The input image is a LOGO. Place this logo naturally in the scene, on a product or floating.", prompt)
}
