package main

import (
	"fmt"
	"regexp"
)

// Category tags. Categories are multi-label: one bug may carry several, and a
// bug matching none of the rules carries exactly CategoryOther.
const (
	CategoryBluetoothPairing     = "bluetooth_pairing"
	CategoryTranslationLanguage  = "translation_language"
	CategoryStreamingMedia       = "streaming_media"
	CategoryPermissionsAndroid   = "permissions_android"
	CategoryIOSSpecific          = "ios_specific"
	CategoryAppCrashes           = "app_crashes"
	CategoryUINavigation         = "ui_navigation"
	CategoryCloudSync            = "cloud_sync"
	CategoryHardwareIntegration  = "hardware_integration"
	CategoryPerformance          = "performance"
	CategoryWifiConnectivity     = "wifi_connectivity"
	CategoryDeveloperConsole     = "developer_console"
	CategoryErrorHandling        = "error_handling"
	CategoryAudioProcessing      = "audio_processing"
	CategoryGalleryMedia         = "gallery_media"
	CategoryStateSynchronization = "state_synchronization"
	CategoryBLECommunication     = "ble_communication"
	CategoryCameraFunctionality  = "camera_functionality"
	CategoryOther                = "other"
)

// categoryOrder fixes the rule evaluation and report order. CategoryOther is
// not a rule; it is the fallback when nothing here matches.
var categoryOrder = []string{
	CategoryBluetoothPairing,
	CategoryTranslationLanguage,
	CategoryStreamingMedia,
	CategoryPermissionsAndroid,
	CategoryIOSSpecific,
	CategoryAppCrashes,
	CategoryUINavigation,
	CategoryCloudSync,
	CategoryHardwareIntegration,
	CategoryPerformance,
	CategoryWifiConnectivity,
	CategoryDeveloperConsole,
	CategoryErrorHandling,
	CategoryAudioProcessing,
	CategoryGalleryMedia,
	CategoryStateSynchronization,
	CategoryBLECommunication,
	CategoryCameraFunctionality,
}

// categoryPatterns maps each category to a disjunction of regexes evaluated
// against the lowercased title+body text. Plain data so individual patterns
// can be tested on their own.
var categoryPatterns = map[string][]string{
	CategoryBluetoothPairing: {
		`\bpair\w*\b`, `\bbluetooth\b`, `\bble\b.*\bconnect\b`, `\bdisconnect\b`,
		`\bglasses\b.*\bpair\b`, `\bpairing\b`,
	},
	CategoryTranslationLanguage: {
		`\btranslat\w+\b`, `\blanguage\b`, `\bwelsh\b`, `\bchinese\b`,
		`\benglish\b`, `\bhang\w*\b.*\btranslat\w+\b`, `\bspeech\b.*\bprocess\w*\b`,
	},
	CategoryStreamingMedia: {
		`\bstream\w*\b`, `\brtmp\b`, `\blive\b.*\bstream\b`, `\bvideo\b.*\bstream\b`,
		`\brecord\w*\b.*\bstream\b`, `\bmedia\b.*\bstream\b`,
	},
	CategoryPermissionsAndroid: {
		`\bpermission\w*\b`, `\bandroid\b.*\bpermission\b`, `\bmicrophone\b.*\bpermission\b`,
		`\blocation\b.*\bpermission\b`, `\bnotification\w*\b.*\bpermission\b`,
	},
	CategoryIOSSpecific: {
		`\bios\b`, `\biphone\b`, `\bmic\b.*\bios\b`, `\bapple\b`,
		`\bios\b.*\bfail\w*\b`, `\bios\b.*\bcrash\b`,
	},
	CategoryAppCrashes: {
		`\bcrash\w*\b`, `\bexception\b`, `\bfail\w*\b.*\bapp\b`,
		`\bclose\w*\b.*\bapp\b`, `\bhang\w*\b`, `\bfreez\w*\b`, `\bsoftexception\b`,
	},
	CategoryUINavigation: {
		`\bpage\b`, `\bnavigat\w*\b`, `\bui\b`, `\bmenu\b`,
		`\bbutton\b`, `\bsettings\b.*\breset\b`, `\bscreen\b.*\bblank\b`,
	},
	CategoryCloudSync: {
		`\bcloud\b`, `\bsync\b`, `\bserver\b`, `\bapi\b`,
		`\bwebsocket\b`, `\bdatabase\b`, `\bclient\b.*\bserver\b`,
	},
	CategoryHardwareIntegration: {
		`\bhardware\b`, `\bsensor\w*\b`, `\bcalibrat\w*\b`,
		`\bfirmware\b`, `\bglasses\b.*\bstop\b`,
	},
	CategoryPerformance: {
		`\bslow\b`, `\bperformance\b`, `\btimeout\b`,
		`\bmemory\b`, `\bbattery\b`, `\blag\w*\b`, `\bunreliable\b`,
	},
	CategoryWifiConnectivity: {
		`\bwifi\b`, `\bhotspot\b`, `\bpassword\b.*\bwifi\b`,
		`\bnetwork\b.*\bconnect\b`, `\bwifi\b.*\bconnect\b`,
	},
	CategoryDeveloperConsole: {
		`\bdev\b.*\bconsole\b`, `\bupload\b.*\bimage\b`, `\bicon\b.*\bupload\b`,
		`\bdeveloper\b.*\bconsole\b`, `\bauth\w*\b.*\bconsole\b`,
	},
	CategoryErrorHandling: {
		`\berror\b.*\bmessage\b`, `\bfeedback\b.*\bmissing\b`, `\bretry\b.*\binfinite\b`,
		`\bwebview\b.*\berror\b`, `\berror\b.*\bhandling\b`,
	},
	CategoryAudioProcessing: {
		`\baudio\b`, `\bmicrophone\b`, `\bmic\b`, `\bspeech\b`,
		`\bplayback\b`, `\bsound\b`, `\bvoice\b`,
	},
	CategoryGalleryMedia: {
		`\bgallery\b`, `\bmedia\b.*\btransfer\b`, `\bphoto\b.*\bsync\b`,
		`\bgallery\b.*\bsync\b`, `\bmedia\b.*\bgallery\b`,
	},
	CategoryStateSynchronization: {
		`\bstate\b.*\bsync\b`, `\bclient\b.*\bcloud\b.*\bstate\b`,
		`\bapp\b.*\bstate\b`, `\bboot\b.*\bscreen\b.*\bdeleted\b`,
	},
	CategoryBLECommunication: {
		`\bble\b`, `\bphoto\b.*\brequest\b`, `\back\b.*\bissue\b`,
		`\bble\b.*\btransfer\b`, `\bble\b.*\bcrash\b`,
	},
	CategoryCameraFunctionality: {
		`\bcamera\b`, `\brotation\b.*\bhardcoded\b`, `\bphoto\b.*\btaking\b`,
		`\brecord\w*\b`, `\bcamera\b.*\brotation\b`,
	},
}

// Platform tags. Exactly one per bug, unlike categories.
const (
	PlatformAndroid     = "android"
	PlatformIOS         = "ios"
	PlatformBoth        = "both"
	PlatformUnspecified = "unspecified"
)

var platformOrder = []string{PlatformAndroid, PlatformIOS, PlatformBoth, PlatformUnspecified}

var (
	androidMarker = regexp.MustCompile(`\bandroid\b`)
	iosMarker     = regexp.MustCompile(`\bios\b|\biphone\b`)
)

// Hardware model tags. Exactly one per bug; "live" alone can match both
// mentra_live and nothing else, and generic terms can overlap across models,
// so detection runs in the fixed priority order of hardwareRules.
const (
	HardwareEvenRealitiesG1 = "even_realities_g1"
	HardwareMentraLive      = "mentra_live"
	HardwareMentraMach1     = "mentra_mach1"
	HardwareVuzixZ100       = "vuzix_z100"
	HardwareUnspecified     = "unspecified"
)

var hardwareOrder = []string{
	HardwareEvenRealitiesG1,
	HardwareMentraLive,
	HardwareMentraMach1,
	HardwareVuzixZ100,
	HardwareUnspecified,
}

type hardwareRule struct {
	Model    string
	Patterns []string
}

// hardwareRules is the detection priority: the first model with a matching
// pattern wins.
var hardwareRules = []hardwareRule{
	{HardwareEvenRealitiesG1, []string{`\bg1\b`, `\beven\b.*\brealities\b`, `\bg1\b.*\bglasses\b`}},
	{HardwareMentraLive, []string{`\bmentra\b.*\blive\b`, `\blive\b`}},
	{HardwareMentraMach1, []string{`\bmach\s*1\b`, `\bmentra\b.*\bmach\b`}},
	{HardwareVuzixZ100, []string{`\bvuzix\b`, `\bz100\b`, `\bz\s*100\b`}},
}

// Classifier evaluates the compiled rule tables against bug records. The
// zero tables plus optional extensions are compiled once via NewClassifier.
type Classifier struct {
	categories map[string][]*regexp.Regexp
	hardware   []compiledHardwareRule
}

type compiledHardwareRule struct {
	model    string
	patterns []*regexp.Regexp
}

// NewClassifier compiles the built-in rule tables, plus any extra per-category
// patterns from a rule-extension file.
func NewClassifier(ext *RuleExtensions) (*Classifier, error) {
	c := &Classifier{categories: make(map[string][]*regexp.Regexp, len(categoryPatterns))}

	for _, category := range categoryOrder {
		patterns := categoryPatterns[category]
		if ext != nil {
			patterns = append(patterns[:len(patterns):len(patterns)], ext.PatternsFor(category)...)
		}
		compiled, err := compilePatterns(category, patterns)
		if err != nil {
			return nil, err
		}
		c.categories[category] = compiled
	}

	for _, rule := range hardwareRules {
		compiled, err := compilePatterns(rule.Model, rule.Patterns)
		if err != nil {
			return nil, err
		}
		c.hardware = append(c.hardware, compiledHardwareRule{model: rule.Model, patterns: compiled})
	}

	return c, nil
}

func compilePatterns(tag string, patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q for %s: %w", p, tag, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Categories returns every category whose rule matches the issue text, in
// categoryOrder. A bug with no match gets exactly {other}, so the returned
// set is never empty.
func (c *Classifier) Categories(issue Issue) []string {
	text := issue.SearchText()

	var matched []string
	for _, category := range categoryOrder {
		for _, re := range c.categories[category] {
			if re.MatchString(text) {
				matched = append(matched, category)
				break
			}
		}
	}
	if len(matched) == 0 {
		return []string{CategoryOther}
	}
	return matched
}

// Platform returns the single platform tag for the issue.
func (c *Classifier) Platform(issue Issue) string {
	text := issue.SearchText()
	hasAndroid := androidMarker.MatchString(text)
	hasIOS := iosMarker.MatchString(text)

	switch {
	case hasAndroid && hasIOS:
		return PlatformBoth
	case hasAndroid:
		return PlatformAndroid
	case hasIOS:
		return PlatformIOS
	default:
		return PlatformUnspecified
	}
}

// Hardware returns the single hardware-model tag for the issue, resolving
// pattern overlap by the fixed priority of hardwareRules.
func (c *Classifier) Hardware(issue Issue) string {
	text := issue.SearchText()
	for _, rule := range c.hardware {
		for _, re := range rule.patterns {
			if re.MatchString(text) {
				return rule.model
			}
		}
	}
	return HardwareUnspecified
}
