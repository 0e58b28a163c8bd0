package rbac

// Default policy. Teachers author; admins additionally import banks and read the
// export audit log.
var RolePermissions = map[string][]string{
	"teacher": {
		"bank:*",
		"paper:*",
		PermQuestionsView,
		PermQuestionsCreate,
		PermExportsDownload,
		PermExportsView,
	},
	"admin": {
		"*", // everything, including questions:import and exports:audit
	},
}
