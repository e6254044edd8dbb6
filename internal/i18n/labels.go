package i18n

// labels holds the fixed UI strings of the public site and the backoffice.
var labels = map[string]Text{
	"site.latest":          EnBn("Latest headlines", "সর্বশেষ শিরোনাম"),
	"site.trending":        EnBn("Trending now", "এখন আলোচিত"),
	"site.breaking":        EnBn("Breaking", "ব্রেকিং"),
	"site.featured":        EnBn("Featured", "নির্বাচিত"),
	"site.related":         EnBn("Related stories", "সম্পর্কিত খবর"),
	"site.search":          EnBn("Search", "অনুসন্ধান"),
	"site.search.prompt":   EnBn("Type a keyword to search the newsroom.", "খবর খুঁজতে একটি শব্দ লিখুন।"),
	"site.see_all":         EnBn("See all", "সব দেখুন"),
	"site.more":            EnBn("More stories", "আরও খবর"),
	"site.next":            EnBn("Next", "পরবর্তী"),
	"site.previous":        EnBn("Previous", "পূর্ববর্তী"),
	"site.sponsored":       EnBn("Sponsored", "স্পন্সরড"),
	"site.advertisement":   EnBn("Advertisement", "বিজ্ঞাপন"),
	"site.login":           EnBn("Sign in", "লগ ইন"),
	"site.register":        EnBn("Create account", "অ্যাকাউন্ট তৈরি করুন"),
	"site.logout":          EnBn("Sign out", "লগ আউট"),
	"site.profile":         EnBn("Profile", "প্রোফাইল"),
	"site.backoffice":      EnBn("Backoffice", "ব্যাকঅফিস"),
	"site.language":        EnBn("বাংলা", "English"),
	"site.theme":           EnBn("Toggle theme", "থিম পরিবর্তন"),
	"state.loading":        EnBn("Loading stories…", "খবর লোড হচ্ছে…"),
	"state.empty":          EnBn("Nothing here yet.", "এখানে এখনো কিছু নেই।"),
	"state.error":          EnBn("We could not load this section.", "এই অংশটি লোড করা যায়নি।"),
	"state.retry":          EnBn("Try again", "আবার চেষ্টা করুন"),
	"state.not_found":      EnBn("Page not found", "পৃষ্ঠাটি পাওয়া যায়নি"),
	"state.failed":         EnBn("Something went wrong", "কিছু একটা ভুল হয়েছে"),
	"state.forbidden":      EnBn("You cannot open this page", "আপনি এই পৃষ্ঠাটি খুলতে পারবেন না"),
	"admin.dashboard":      Plain("Dashboard"),
	"admin.articles":       Plain("Articles"),
	"admin.categories":     Plain("Categories"),
	"admin.ads":            Plain("Advertisements"),
	"admin.media":          Plain("Media"),
	"admin.users":          Plain("Users"),
	"admin.settings":       Plain("Settings"),
	"admin.save":           Plain("Save"),
	"admin.update":         Plain("Update"),
	"admin.cancel":         Plain("Cancel"),
	"admin.edit":           Plain("Edit"),
	"admin.delete":         Plain("Delete"),
	"admin.delete.confirm": Plain("Delete this item? This cannot be undone."),
}

// Label returns the UI string for key in lang, or the key itself when the
// catalog has no entry.
func Label(lang Language, key string) string {
	t, ok := labels[key]
	if !ok {
		return key
	}
	return Resolve(t, string(lang))
}
