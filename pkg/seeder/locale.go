package seeder

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Phone formats by region, '#' is replaced by a digit.
var phoneFormats = map[string][]string{
	"US": {"(###) ###-####", "###-###-####", "+1 ### ### ####"},
	"CA": {"(###) ###-####", "+1 ### ### ####"},
	"GB": {"07### ######", "+44 20 #### ####", "01### ######"},
	"DE": {"+49 30 ########", "0151 ########", "0### #######"},
	"FR": {"+33 1 ## ## ## ##", "06 ## ## ## ##"},
	"ES": {"+34 6## ### ###", "9## ### ###"},
	"IT": {"+39 3## ### ####", "06 ########"},
	"NL": {"+31 6 ########", "020 ### ####"},
	"RU": {"+7 9## ###-##-##", "8 (###) ###-##-##"},
	"JP": {"090-####-####", "03-####-####"},
	"AU": {"04## ### ###", "+61 2 #### ####"},
	"BR": {"+55 11 9####-####", "(##) ####-####"},
	"IN": {"+91 9#########", "0## ########"},
}

// Postal code formats by region, '#' is replaced by a digit and '?'
// by a letter.
var postcodeFormats = map[string][]string{
	"US": {"#####", "#####-####"},
	"CA": {"?#? #?#"},
	"GB": {"??# #??", "?# #??", "??## #??"},
	"DE": {"#####"},
	"FR": {"#####"},
	"ES": {"#####"},
	"IT": {"#####"},
	"NL": {"#### ??"},
	"RU": {"######"},
	"JP": {"###-####"},
	"AU": {"####"},
	"BR": {"#####-###"},
	"IN": {"######"},
}

// locale adapts formats of phones, postal codes and country names to a
// language tag.
type locale struct {
	tag    language.Tag
	region string
	names  display.Namer
}

func newLocale(s string) *locale {
	tag, err := language.Parse(s)
	if err != nil {
		tag = language.AmericanEnglish
	}
	region, _ := tag.Region()
	return &locale{
		tag:    tag,
		region: region.String(),
		names:  display.Regions(tag),
	}
}

func (l *locale) phone(f *gofakeit.Faker) string {
	formats, ok := phoneFormats[l.region]
	if !ok {
		return f.PhoneFormatted()
	}
	return numerify(f, f.RandomString(formats))
}

func (l *locale) postcode(f *gofakeit.Faker) string {
	formats, ok := postcodeFormats[l.region]
	if !ok {
		return f.Zip()
	}
	res := f.Lexify(numerify(f, f.RandomString(formats)))
	return strings.ToUpper(res)
}

// country returns a country name in the language of the locale.
func (l *locale) country(f *gofakeit.Faker) string {
	abr := f.CountryAbr()
	if l.names == nil {
		return f.Country()
	}
	region, err := language.ParseRegion(abr)
	if err != nil {
		return f.Country()
	}
	if res := l.names.Name(region); res != "" {
		return res
	}
	return f.Country()
}

// numerify replaces '#' with digits. A leading zero of the format stays.
func numerify(f *gofakeit.Faker, format string) string {
	return f.Numerify("x" + format)[1:]
}
