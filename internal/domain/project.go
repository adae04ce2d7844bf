package domain

// Project represents a code repository project.
type Project struct {
	ID                int
	Name              string
	PathWithNamespace string
	WebURL            string
}

// Group represents a group in the platform's group hierarchy.
// Subgroups are listed separately and walked by the service layer.
type Group struct {
	ID       int
	Name     string
	FullPath string
	ParentID int // 0 for top-level groups
}
