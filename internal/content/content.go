// Package content serves the dua and reminder of the day. The tables are
// static so the feature keeps working offline and on first install.
package content

import "time"

// Item is one card of daily content.
type Item struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

var duas = []Item{
	{Title: "Günün Duası", Text: "Allah'ım! Niyetimizi halis, soframızı bereketli, gönlümüzü huzurlu eyle."},
	{Title: "Günün Duası", Text: "Rabbim! Bizi affınla kuşat, sabrımızı artır, bize doğru yolu sevdir."},
	{Title: "Günün Duası", Text: "Allah'ım! Bugün yaptığımız hayırları kabul eyle, kusurlarımızı bağışla."},
	{Title: "Günün Duası", Text: "Rabbim! Evimizi huzurla, kalbimizi imanla, dilimizi güzel sözle doldur."},
	{Title: "Günün Duası", Text: "Allah'ım! Dualarımızı kabul eyle, rızkımıza bereket ver, şifa ihsan eyle."},
}

var reminders = []Item{
	{Title: "Günün Hatırlatması", Text: "İftarı acele ettirmek, sahuru geciktirmek sünnettir.", Source: "Hadis-i Şerif"},
	{Title: "Günün Hatırlatması", Text: "Oruç, sabrın yarısıdır.", Source: "Hadis-i Şerif"},
	{Title: "Günün Hatırlatması", Text: "Ramazan'ın başı rahmet, ortası mağfiret, sonu cehennemden kurtuluştur."},
	{Title: "Günün Hatırlatması", Text: "Kim inanarak ve sevabını Allah'tan bekleyerek Ramazan orucunu tutarsa, geçmiş günahları bağışlanır.", Source: "Buhârî"},
}

// ForDate returns the dua and reminder for a calendar day. The pick is
// keyed off the day of year so every client sees the same pair.
func ForDate(t time.Time) (dua, reminder Item) {
	day := t.YearDay()
	return duas[day%len(duas)], reminders[day%len(reminders)]
}
