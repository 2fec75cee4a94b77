// Package messages renders user-visible text for load outcomes in English or German.
package messages

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cocosip/go-dicom-viewer/fileset"
	"github.com/cocosip/go-dicom-viewer/loader"
)

// Supported lists the available languages, the first being the fallback
var Supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(Supported)

// Message keys
const (
	keyErrorLoading   = "Error loading file"
	keyCannotLoad     = "The file cannot be loaded."
	keyNotFound       = "The file %s does not exist."
	keyParse          = "The header of %s cannot be read."
	keyTruncated      = "The pixel data of %s is incomplete."
	keyOutOfMemory    = "Not enough memory to display %s."
	keyEmptyDirectory = "There are no image files in the directory."
	keyNotInDirectory = "The file is not in the directory."
	keyNoImage        = "%s contains no displayable image (%d bits allocated)."
	keyLoading        = "Loading %s..."
	keyLoaded         = "File: %s (%d x %d, %d bit)"
	keyUnknown        = "An unknown error occurred: %v"
	keyBrightness     = "Brightness"
)

func init() {
	de := language.German
	for key, text := range map[string]string{
		keyErrorLoading:   "Fehler beim Laden der Datei",
		keyCannotLoad:     "Die Datei kann nicht geladen werden.",
		keyNotFound:       "Die Datei %s existiert nicht.",
		keyParse:          "Der Header von %s kann nicht gelesen werden.",
		keyTruncated:      "Die Pixeldaten von %s sind unvollständig.",
		keyOutOfMemory:    "Nicht genügend Speicher, um %s anzuzeigen.",
		keyEmptyDirectory: "Das Verzeichnis enthält keine Bilddateien.",
		keyNotInDirectory: "Die Datei befindet sich nicht im Verzeichnis.",
		keyNoImage:        "%s enthält kein darstellbares Bild (%d Bits alloziert).",
		keyLoading:        "Lade %s...",
		keyLoaded:         "Datei: %s (%d x %d, %d Bit)",
		keyUnknown:        "Ein unbekannter Fehler ist aufgetreten: %v",
		keyBrightness:     "Helligkeit",
	} {
		if err := message.SetString(de, key, text); err != nil {
			panic(err)
		}
	}
}

// Printer formats messages in one language
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a printer for a BCP 47 language name such as "en" or "de".
// Unsupported languages fall back to English.
func New(lang string) (*Printer, error) {
	want, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", lang, err)
	}
	_, idx, _ := matcher.Match(want)
	tag := Supported[idx]
	return &Printer{tag: tag, p: message.NewPrinter(tag)}, nil
}

// Language returns the selected language
func (p *Printer) Language() language.Tag { return p.tag }

// Title returns the heading for error dialogs
func (p *Printer) Title() string { return p.p.Sprintf(keyErrorLoading) }

// BrightnessLabel returns the label of the brightness control
func (p *Printer) BrightnessLabel() string { return p.p.Sprintf(keyBrightness) }

// Describe explains err to the user
func (p *Printer) Describe(err error) string {
	var te *loader.TaskError
	if errors.As(err, &te) {
		name := filepath.Base(te.Path)
		switch te.Kind {
		case loader.KindNotFound:
			return p.p.Sprintf(keyNotFound, name)
		case loader.KindParseError:
			return p.p.Sprintf(keyParse, name)
		case loader.KindTruncatedData:
			return p.p.Sprintf(keyTruncated, name)
		case loader.KindOutOfResources:
			return p.p.Sprintf(keyOutOfMemory, name)
		}
	}
	switch {
	case errors.Is(err, fileset.ErrEmptyDirectory):
		return p.p.Sprintf(keyCannotLoad) + " " + p.p.Sprintf(keyEmptyDirectory)
	case errors.Is(err, fileset.ErrNotInSet):
		return p.p.Sprintf(keyCannotLoad) + " " + p.p.Sprintf(keyNotInDirectory)
	}
	return p.p.Sprintf(keyUnknown, err)
}

// Event describes a task event for a status line
func (p *Printer) Event(ev loader.Event) string {
	name := filepath.Base(ev.FilePath())
	switch e := ev.(type) {
	case loader.Started:
		return p.p.Sprintf(keyLoading, name)
	case loader.Completed:
		if e.NoImage() {
			return p.p.Sprintf(keyNoImage, name, e.Header.BitsAllocated)
		}
		return p.p.Sprintf(keyLoaded, name, e.Image.Width(), e.Image.Height(), e.Image.BitsAllocated())
	case loader.Failed:
		return p.Describe(e.Err)
	case loader.OutOfResources:
		return p.Describe(e.Err)
	}
	return ""
}
