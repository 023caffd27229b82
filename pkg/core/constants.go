package core

// Managed metadata keys
const (
	// AnnotationPrefix marks a Secret annotation as a managed hash tag. The remainder of the key
	// is the entry name.
	AnnotationPrefix = "autosecrets.webstep.no/"

	// FieldManager is the server-side apply field manager for managed Secrets.
	FieldManager = "autosecrets.webstep.no"
)

// Controller identity
const (
	ControllerName = "autosecret-controller"
	LogEnvVar      = "AUTOSECRET_LOG"
)
