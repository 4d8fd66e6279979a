package models

const CarouselSlideCount = 4

const bodySplit = 50

// BackfillSlides guarantees a carousel script carries at least four slides.
// Slides the generator did return keep their text and take positions 1..n;
// the remaining positions are filled from the script's own copy. Scripts
// that already have four or more slides are renumbered only when a slide
// number is missing.
func BackfillSlides(s Script) Script {
	if len(s.Slides) >= CarouselSlideCount {
		if !missingNumbers(s.Slides) {
			return s
		}
		slides := make([]CarouselSlide, len(s.Slides))
		for i, sl := range s.Slides {
			sl.SlideNumber = i + 1
			slides[i] = sl
		}
		s.Slides = slides
		return s
	}
	filler := fillerSlides(s)
	slides := make([]CarouselSlide, CarouselSlideCount)
	for i := range slides {
		if i < len(s.Slides) {
			slides[i] = s.Slides[i]
		} else {
			slides[i] = filler[i]
		}
		slides[i].SlideNumber = i + 1
	}
	s.Slides = slides
	return s
}

// BackfillScripts applies BackfillSlides to every script when format is a
// carousel and returns scripts untouched otherwise.
func BackfillScripts(scripts []Script, format Format) []Script {
	if format != FormatCarousel {
		return scripts
	}
	out := make([]Script, len(scripts))
	for i, s := range scripts {
		out[i] = BackfillSlides(s)
	}
	return out
}

func missingNumbers(slides []CarouselSlide) bool {
	for _, sl := range slides {
		if sl.SlideNumber <= 0 {
			return true
		}
	}
	return false
}

func fillerSlides(s Script) [CarouselSlideCount]CarouselSlide {
	head, tail := splitBody(s.Body)
	return [CarouselSlideCount]CarouselSlide{
		{Headline: orDefault(s.Title, "Attention"), Body: orDefault(s.Hook, "Look at this"), VisualDescription: "Section 1 of panorama"},
		{Headline: "The Problem", Body: orDefault(head, "Sound familiar?"), VisualDescription: "Section 2 of panorama"},
		{Headline: "The Solution", Body: orDefault(tail, "Here is the fix"), VisualDescription: "Section 3 of panorama"},
		{Headline: "Join Us", Body: orDefault(s.CTA, "Buy now"), VisualDescription: "Section 4 of panorama"},
	}
}

func splitBody(body string) (string, string) {
	r := []rune(body)
	if len(r) <= bodySplit {
		return body, body
	}
	return string(r[:bodySplit]) + "...", string(r[bodySplit:])
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
