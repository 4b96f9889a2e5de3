package scraper

import (
	"strings"
	"testing"
)

func TestLocateSectionFromAncestor(t *testing.T) {
	html := `<html><body><main>
		<section id="hero"><h1>Acme Logistics</h1></section>
		<section id="about">
			<h2>About Us</h2>
			<p>Acme Logistics was founded in 2009 and moves freight across twelve countries with a fleet of four hundred trucks.</p>
		</section>
	</main></body></html>`

	section := LocateSection(parseDoc(t, html), aboutKeywords, DefaultOptions())
	if section == nil {
		t.Fatal("section not found")
	}
	if section.Heading != "About Us" {
		t.Errorf("heading = %q", section.Heading)
	}
	if strings.HasPrefix(section.Text, "About Us") {
		t.Errorf("heading not stripped from text: %q", section.Text)
	}
	if !strings.Contains(section.Text, "founded in 2009") {
		t.Errorf("text = %q", section.Text)
	}
}

func TestLocateSectionSiblingFallback(t *testing.T) {
	// Heading and content are direct body children, so no ancestor
	// container qualifies within three levels.
	html := `<html><body>
		<h2>Our Services</h2>
		<p>We design and operate private rail terminals for industrial clients.</p>
		<p>Terminal staffing, maintenance, and customs handling are all included.</p>
		<h2>Contact</h2>
		<p>This paragraph belongs to the next section and must not be collected.</p>
	</body></html>`

	section := LocateSection(parseDoc(t, html), servicesKeywords, DefaultOptions())
	if section == nil {
		t.Fatal("section not found")
	}
	if section.Heading != "Our Services" {
		t.Errorf("heading = %q", section.Heading)
	}
	if !strings.Contains(section.Text, "private rail terminals") || !strings.Contains(section.Text, "customs handling") {
		t.Errorf("text = %q", section.Text)
	}
	if strings.Contains(section.Text, "next section") {
		t.Errorf("collected past the next heading: %q", section.Text)
	}
}

func TestLocateSectionNotFound(t *testing.T) {
	html := `<html><body><main>
		<h2>Careers</h2>
		<p>We are always hiring drivers and dispatchers for our regional hubs.</p>
	</main></body></html>`

	if s := LocateSection(parseDoc(t, html), aboutKeywords, DefaultOptions()); s != nil {
		t.Fatalf("unexpected section: %+v", s)
	}
}

func TestLocateSectionSkipsPlaceholder(t *testing.T) {
	html := `<html><body><main>
		<section>
			<h2>About Us</h2>
			<p>Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor.</p>
		</section>
	</main></body></html>`

	if s := LocateSection(parseDoc(t, html), aboutKeywords, DefaultOptions()); s != nil {
		t.Fatalf("placeholder section must not be returned: %+v", s)
	}
}

func TestLocateSectionCapsLength(t *testing.T) {
	long := strings.Repeat("Freight forwarding across the continent with bonded warehousing. ", 60)
	html := `<html><body><main><section><h2>About Us</h2><p>` + long + `</p></section></main></body></html>`

	opts := DefaultOptions()
	section := LocateSection(parseDoc(t, html), aboutKeywords, opts)
	if section == nil {
		t.Fatal("section not found")
	}
	if len(section.Text) > opts.MaxSectionLen {
		t.Errorf("text length %d exceeds cap %d", len(section.Text), opts.MaxSectionLen)
	}
}

func TestLocateSectionHeadingRankOrder(t *testing.T) {
	// Both headings match; the h1 section must win even though the h3
	// appears first in the document.
	html := `<html><body><main>
		<section>
			<h3>About our process</h3>
			<p>The process section describes our intake workflow in quite some detail here.</p>
		</section>
		<section>
			<h1>About Us</h1>
			<p>The company section describes the firm itself and its long operating history.</p>
		</section>
	</main></body></html>`

	section := LocateSection(parseDoc(t, html), aboutKeywords, DefaultOptions())
	if section == nil {
		t.Fatal("section not found")
	}
	if section.Heading != "About Us" {
		t.Errorf("heading = %q, want the h1 match", section.Heading)
	}
}
