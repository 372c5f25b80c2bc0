package models

// Workspace is a desk workspace. Migration patches delete or rename the
// stock ones the customizations replace.
type Workspace struct {
	Name   string
	Label  string
	Module string
}

func (w *Workspace) DocType() string { return DocTypeWorkspace }
func (w *Workspace) DocName() string { return w.Name }
