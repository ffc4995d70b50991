// Package profile describes the static screen layout of the finance app on
// each supported device. Profiles are defined once per device model and are
// read-only at runtime.
package profile

import (
	"fmt"
	"image"
	"sort"
	"time"
)

// Swipe describes the scroll gesture used to page through lists.
type Swipe struct {
	From     image.Point
	To       image.Point
	Duration time.Duration
}

// Profile holds every pixel coordinate and timing the entry workflow needs
// on a particular device. All fields are literal positions in the app's UI;
// none are discovered at runtime.
type Profile struct {
	Keypad map[byte]image.Point

	Name        string
	PackageName string

	DateGridX []int
	DateGridY []int

	NewEntry   image.Point
	SaveButton image.Point

	IncomeTab   image.Point
	TransferTab image.Point

	AccountLeft   image.Point
	AccountRight  image.Point
	CategoryEntry image.Point

	DatePickerEntry image.Point
	TimePickerEntry image.Point
	NotesField      image.Point
	Backspace       image.Point

	DateNextMonth image.Point
	DatePrevMonth image.Point
	DateOK        image.Point

	TimeKeypadMode image.Point
	TimeHour       image.Point
	TimeMinute     image.Point
	TimeAMPM       image.Point
	TimeAM         image.Point
	TimePM         image.Point
	TimeOK         image.Point

	ScrollGesture Swipe

	ShortDelay time.Duration
	LongDelay  time.Duration

	AccountListCropPx int
	CategoryNameLimit int
}

// registry maps the device model string reported by the device to its
// layout profile.
var registry = map[string]Profile{
	"RMX2151": realme7(),
}

// ForModel returns the profile for a connected device's model identifier.
// An unrecognized model is a fatal startup condition for callers.
func ForModel(model string) (Profile, error) {
	p, ok := registry[model]
	if !ok {
		return Profile{}, fmt.Errorf("no coordinate profile for device model %q (known: %v)", model, Models())
	}
	return p, nil
}

// Models lists the device models with a registered profile.
func Models() []string {
	models := make([]string, 0, len(registry))
	for m := range registry {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// realme7 is the layout of MyMoney Pro on a Realme 7 (1080x2400).
func realme7() Profile {
	return Profile{
		Name:        "Realme 7",
		PackageName: "com.raha.app.mymoney.pro",

		ShortDelay: 100 * time.Millisecond,
		LongDelay:  600 * time.Millisecond,

		NewEntry:   image.Pt(910, 1970),
		SaveButton: image.Pt(950, 150),

		IncomeTab:   image.Pt(174, 380),
		TransferTab: image.Pt(853, 382),

		AccountLeft:   image.Pt(300, 650),
		AccountRight:  image.Pt(800, 650),
		CategoryEntry: image.Pt(800, 650),

		DatePickerEntry: image.Pt(400, 2200),
		TimePickerEntry: image.Pt(750, 2200),
		NotesField:      image.Pt(500, 950),

		Keypad: map[byte]image.Point{
			'7': image.Pt(450, 1450), '8': image.Pt(650, 1450), '9': image.Pt(950, 1450),
			'4': image.Pt(450, 1650), '5': image.Pt(650, 1650), '6': image.Pt(950, 1650),
			'1': image.Pt(450, 1850), '2': image.Pt(650, 1850), '3': image.Pt(950, 1850),
			'0': image.Pt(450, 2069), '.': image.Pt(650, 2039),
		},
		Backspace: image.Pt(950, 1250),

		DateNextMonth: image.Pt(867, 860),
		DatePrevMonth: image.Pt(216, 860),
		DateGridX:     []int{230, 330, 430, 530, 630, 730, 830},
		DateGridY:     []int{1100, 1220, 1340, 1460, 1580, 1700},
		DateOK:        image.Pt(810, 1885),

		TimeKeypadMode: image.Pt(209, 1731),
		TimeHour:       image.Pt(256, 1026),
		TimeMinute:     image.Pt(426, 1026),
		TimeAMPM:       image.Pt(838, 1299),
		TimeAM:         image.Pt(705, 1333),
		TimePM:         image.Pt(700, 1457),
		TimeOK:         image.Pt(852, 1542),

		ScrollGesture: Swipe{
			From:     image.Pt(500, 1800),
			To:       image.Pt(500, 800),
			Duration: 300 * time.Millisecond,
		},

		AccountListCropPx: 240,
		CategoryNameLimit: 10,
	}
}
