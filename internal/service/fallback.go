package service

import (
	"fmt"
	"strings"
)

// Static templates used when the AI provider is down or returns garbage.
// Sellers still get a usable listing; they can regenerate later.

type descriptionTemplate struct {
	category string // empty means default
	format   string // fmt args: name, quantity, price
}

var descriptionTemplates = map[string][]descriptionTemplate{
	"en": {
		{"Vegetables", "Fresh and crisp %s, straight from the farm! Perfect for your daily cooking needs. Get %s for just ₹%s."},
		{"Fruits", "Sweet and juicy %s, handpicked for the best quality! Rich in vitamins and perfect for the whole family. %s for ₹%s."},
		{"Handicrafts", "Beautiful handcrafted %s, made with traditional techniques and love! A perfect addition to your home. %s available for ₹%s."},
		{"", "Premium quality %s at an affordable price! Get %s for just ₹%s. Fresh, genuine, and value for money!"},
	},
	"hi": {
		{"Vegetables", "ताज़ी और कुरकुरी %s, सीधे खेत से! आपकी रोज़ाना खाना पकाने की ज़रूरतों के लिए बिल्कुल सही। सिर्फ ₹%[3]s में %[2]s पाएं।"},
		{"Fruits", "मीठे और रसीले %s, सबसे अच्छी गुणवत्ता के लिए हाथ से चुने गए! विटामिन से भरपूर और पूरे परिवार के लिए सही। ₹%[3]s में %[2]s।"},
		{"Handicrafts", "सुंदर हस्तनिर्मित %s, पारंपरिक तकनीकों और प्रेम से बनाया गया! आपके घर के लिए एक बेहतरीन जोड़। ₹%[3]s में %[2]s उपलब्ध।"},
		{"", "प्रीमियम गुणवत्ता %s किफायती कीमत पर! सिर्फ ₹%[3]s में %[2]s पाएं। ताज़ा, असली, और पैसे की कीमत!"},
	},
	"ta": {
		{"Vegetables", "புதிய மற்றும் மிருதுவான %s, நேரடியாக பண்ணையிலிருந்து! உங்கள் தினசரி சமையல் தேவைகளுக்கு சரியானது. வெறும் ₹%[3]s க்கு %[2]s பெறுங்கள்."},
		{"Fruits", "இனிப்பு மற்றும் சுவையான %s, சிறந்த தரத்திற்காக கையால் தேர்ந்தெடுக்கப்பட்டது! வைட்டமின்கள் நிறைந்தது மற்றும் முழு குடும்பத்திற்கும் சரியானது. ₹%[3]s க்கு %[2]s."},
		{"Handicrafts", "அழகான கைவினைப்பொருள் %s, பாரம்பரிய நுட்பங்கள் மற்றும் அன்புடன் செய்யப்பட்டது! உங்கள் வீட்டிற்கு ஒரு சிறந்த சேர்க்கை. ₹%[3]s க்கு %[2]s கிடைக்கிறது."},
		{"", "மிக உயர்ந்த தரம் %s மலிவான விலையில்! வெறும் ₹%[3]s க்கு %[2]s பெறுங்கள். புதிய, உண்மையான, மற்றும் பணத்திற்கு மதிப்பு!"},
	},
}

// FallbackDescription renders a template description for a product. Languages
// without templates fall back to English.
func FallbackDescription(name, category string, price float64, quantity, language string) string {
	templates, ok := descriptionTemplates[language]
	if !ok {
		templates = descriptionTemplates["en"]
	}

	priceStr := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", price), "0"), ".")
	if quantity == "" {
		quantity = "1"
	}

	var def string
	for _, t := range templates {
		if t.category == category {
			return fmt.Sprintf(t.format, name, quantity, priceStr)
		}
		if t.category == "" {
			def = t.format
		}
	}
	return fmt.Sprintf(def, name, quantity, priceStr)
}

// categoryTags are the baseline tags per category.
var categoryTags = map[string][]string{
	"Vegetables":  {"fresh", "healthy", "local"},
	"Fruits":      {"fresh", "sweet", "nutritious"},
	"Handicrafts": {"handmade", "traditional", "unique"},
	"Dairy":       {"fresh", "nutritious", "daily"},
	"Grains":      {"staple", "wholesome", "quality"},
	"Spices":      {"aromatic", "authentic", "flavorful"},
}

// FallbackTags returns static search tags for a product based on its
// category plus a few keywords lifted from the name itself.
func FallbackTags(name, category string) []string {
	tags := append([]string{}, categoryTags[category]...)

	nameLower := strings.ToLower(name)
	if strings.Contains(nameLower, "organic") {
		tags = append(tags, "organic")
	}
	for _, word := range []string{"premium", "quality", "best"} {
		if strings.Contains(nameLower, word) {
			tags = append(tags, "premium")
			break
		}
	}

	if len(tags) == 0 {
		tags = []string{"quality", "local"}
	}
	return tags
}
