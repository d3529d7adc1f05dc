// Package language holds the closed catalog of languages the bot supports,
// together with the localized dialog strings keyed by catalog tag.
package language

// Option maps a keyboard display label to the canonical tag embedded in
// prompts and stored in the database.
type Option struct {
	Label string
	Tag   string
}

// options is the full catalog in keyboard order. Adding a language means
// adding a row here plus a call-to-action entry below.
var options = []Option{
	{Label: "🇺🇸 English", Tag: "🇺🇸 English"},
	{Label: "🇧🇷 Português (Brasil)", Tag: "🇧🇷 Português pt-BR"},
	{Label: "🇵🇹 Português (Portugal)", Tag: "🇵🇹 Português pt-PT"},
	{Label: "🇯🇵 日本語", Tag: "🇯🇵 日本語"},
	{Label: "🇪🇸 Español", Tag: "🇪🇸 Español"},
	{Label: "🇫🇷 Français", Tag: "🇫🇷 Français"},
	{Label: "🇷🇺 Русский", Tag: "🇷🇺 Русский"},
}

var byLabel = func() map[string]string {
	m := make(map[string]string, len(options))
	for _, opt := range options {
		m[opt.Label] = opt.Tag
	}
	return m
}()

// callToAction asks the user, in their known language, to write back what
// they understood about the digest above.
var callToAction = map[string]string{
	"🇺🇸 English":          "🇺🇸 Please write back what you understood about the above news.",
	"🇧🇷 Português pt-BR": "🇧🇷 Por favor, escreva de volta o que você entendeu sobre as notícias acima.",
	"🇵🇹 Português pt-PT": "🇵🇹 Por favor, escreva de volta o que você entendeu sobre as notícias acima.",
	"🇯🇵 日本語":              "🇯🇵 上記のニュースについて理解したことを書き返してください。",
	"🇪🇸 Español":          "🇪🇸 Por favor, escriba de vuelta lo que entendió sobre las noticias anteriores.",
	"🇫🇷 Français":         "🇫🇷 Veuillez écrire en retour ce que vous avez compris des nouvelles ci-dessus.",
	"🇷🇺 Русский":          "🇷🇺 Пожалуйста, напишите обратно, что вы поняли из приведенных выше новостей.",
}

// Resolve returns the canonical tag for a display label.
func Resolve(label string) (string, bool) {
	tag, ok := byLabel[label]
	return tag, ok
}

// Labels returns the display labels in keyboard order.
func Labels() []string {
	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = opt.Label
	}
	return labels
}

// CallToAction returns the write-back prompt for the given known-language
// tag. The catalog is closed, so a miss means the tag did not come from
// Resolve; the English prompt is the fallback.
func CallToAction(knownTag string) string {
	if cta, ok := callToAction[knownTag]; ok {
		return cta
	}
	return callToAction["🇺🇸 English"]
}

// Dialog notices shown to every user regardless of selection, so each is a
// concatenation over all supported languages, matching the keyboard.
const (
	NoticeSelectKnown = "🇺🇸 Please select your known language:\n\n🇧🇷 🇵🇹 Por favor, selecione seu idioma conhecido:\n\n🇯🇵 既知の言語を選択してください:\n\n🇪🇸 Por favor, seleccione su idioma conocido:\n\n🇫🇷 Veuillez sélectionner votre langue connue:\n\n🇷🇺 Пожалуйста, выберите известный вам язык:"

	NoticeSelectTarget = "🇺🇸 Please select the news language:\n\n🇧🇷 🇵🇹 Por favor, selecione o idioma das notícias:\n\n🇯🇵 ニュースの言語を選択してください:\n\n🇪🇸 Por favor, seleccione el idioma de las noticias:\n\n🇫🇷 Veuillez sélectionner la langue des actualités:\n\n🇷🇺 Пожалуйста, выберите язык новостей:"

	NoticeInvalidKnown = "🇺🇸 Please select a valid known language.\n\n🇧🇷 🇵🇹 Por favor, selecione um idioma conhecido válido.\n\n🇯🇵 有効な既知の言語を選択してください。\n\n🇪🇸 Por favor, seleccione un idioma conocido válido.\n\n🇫🇷 Veuillez sélectionner une langue connue valide.\n\n🇷🇺 Пожалуйста, выберите действительный известный язык."

	NoticeInvalidTarget = "🇺🇸 Please select a valid news language.\n\n🇧🇷 🇵🇹 Por favor, selecione um idioma de notícias válido.\n\n🇯🇵 有効なニュースの言語を選択してください。\n\n🇪🇸 Por favor, seleccione un idioma de noticias válido.\n\n🇫🇷 Veuillez sélectionner une langue d'actualités valide.\n\n🇷🇺 Пожалуйста, выберите действительный язык новостей."

	NoticeLoading = "🇺🇸 Loading...\n\n🇧🇷 🇵🇹 Carregando...\n\n🇯🇵 読み込み中...\n\n🇪🇸 Cargando...\n\n🇫🇷 Chargement...\n\n🇷🇺 Загрузка..."
)
