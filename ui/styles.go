package ui

import (
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Theme-aware styles for the status card and ping badges.
const appCSS = `
.status-card {
    border-radius: 12px;
    padding: 16px;
    border: 1px solid alpha(currentColor, 0.15);
}

.ping-good {
    color: #2ec27e;
}

.ping-fair {
    color: #e5a50a;
}

.ping-poor {
    color: #e01b24;
}
`

// LoadStyles installs the application CSS for the default display.
func LoadStyles() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromString(appCSS)

	gtk.StyleContextAddProviderForDisplay(
		display,
		provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}
