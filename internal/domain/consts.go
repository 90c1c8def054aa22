package domain

import "fmt"

// ReactionPool holds the emoji names picked at random for the first reaction.
var ReactionPool = []string{
	"fire",
	"rocket",
	"star-struck",
	"raised_hands",
	"clap",
	"100",
	"muscle",
	"zap",
}

// CannedResponses are posted in the thread of an accepted idea.
var CannedResponses = []string{
	"Wah, ide yang keren! Terima kasih sudah berbagi :raised_hands:",
	"Mantap! Ide ini sudah dicatat, keep them coming :rocket:",
	"Great idea! Saved it so the team can pick it up :bulb:",
	"Noted! Ide kecil bisa jadi perubahan besar :seedling:",
	"Love it. Thanks for thinking beyond the daily routine :star2:",
	"Keren! Semakin banyak ide, semakin seru :tada:",
}

// DadJokes are posted occasionally after the canned response.
var DadJokes = []string{
	"Kenapa programmer suka gelap? Karena light mode bikin bug kelihatan :sunglasses:",
	"I told my computer I needed a break, and it said: no problem, I'll go to sleep.",
	"Ikan apa yang paling jago matematika? Ikan kali-kali :fish:",
	"Why do Java developers wear glasses? Because they don't C#.",
	"Sayur apa yang paling dingin? Kembang kol :snowflake:",
	"Why did the idea go to school? To become a bright one :bulb:",
}

// DailyTemplate turns the total idea count into the daily motivation text.
type DailyTemplate func(total int) string

var DailyTemplates = []DailyTemplate{
	func(total int) string {
		return fmt.Sprintf(":sunrise: Selamat pagi! Sejauh ini sudah ada *%d ide* yang terkumpul. Ada ide baru hari ini?", total)
	},
	func(total int) string {
		return fmt.Sprintf(":bulb: %d ideas and counting! Drop yours in the channel, no idea is too small.", total)
	},
	func(total int) string {
		return fmt.Sprintf(":rocket: Tim kita sudah menyumbang *%d ide*. Yuk tambah satu lagi hari ini!", total)
	},
	func(total int) string {
		return fmt.Sprintf(":seedling: Every big change started as a small idea. We have *%d* so far, what's next?", total)
	},
}
