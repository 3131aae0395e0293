package component

// Script attaches a tengo update hook loaded from Path. Params are exposed to
// the script as read-only numbers.
type Script struct {
	Path   string
	Params map[string]float64
}

var ScriptComponent = NewComponent[Script]("script")
