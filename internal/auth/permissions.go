package auth

import "github.com/Axel-LeBlanc/Eatmands/internal/models"

// Operation names one protected API action. Permissions are a static table
// from operation to allowed-role set, checked by enum membership.
type Operation string

const (
	OpOrderCreate     Operation = "order.create"
	OpOrderList       Operation = "order.list"
	OpOrderGet        Operation = "order.get"
	OpOrderStatus     Operation = "order.status"
	OpOrderCancel     Operation = "order.cancel"
	OpOrderDelete     Operation = "order.delete"
	OpOrderMutate     Operation = "order.mutate"
	OpOrderSearch     Operation = "order.search"
	OpOrderSearchWide Operation = "order.search_wide"
	OpCatalogRead     Operation = "catalog.read"
	OpCatalogWrite    Operation = "catalog.write"
	OpUserManage      Operation = "user.manage"
	OpActivityRead    Operation = "activity.read"
)

type roleSet map[models.Role]struct{}

func rolesOf(rs ...models.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

var allStaff = rolesOf(
	models.RoleAdmin,
	models.RoleManager,
	models.RoleSupervisor,
	models.RoleWaiter,
	models.RoleCashier,
	models.RoleCook,
)

var permissions = map[Operation]roleSet{
	OpOrderCreate:     rolesOf(models.RoleAdmin, models.RoleManager, models.RoleSupervisor, models.RoleWaiter),
	OpOrderList:       allStaff,
	OpOrderGet:        rolesOf(models.RoleAdmin, models.RoleManager, models.RoleSupervisor, models.RoleWaiter, models.RoleCashier),
	OpOrderStatus:     allStaff,
	OpOrderCancel:     allStaff,
	OpOrderDelete:     rolesOf(models.RoleAdmin, models.RoleManager),
	OpOrderMutate:     rolesOf(models.RoleAdmin, models.RoleManager, models.RoleSupervisor, models.RoleWaiter),
	OpOrderSearch:     allStaff,
	OpOrderSearchWide: rolesOf(models.RoleAdmin, models.RoleManager, models.RoleSupervisor),
	OpCatalogRead:     allStaff,
	OpCatalogWrite:    rolesOf(models.RoleAdmin, models.RoleManager, models.RoleSupervisor),
	OpUserManage:      rolesOf(models.RoleAdmin, models.RoleManager),
	OpActivityRead:    rolesOf(models.RoleAdmin, models.RoleManager),
}

// Allowed reports whether the role may perform the operation. Unknown
// operations allow nobody.
func Allowed(op Operation, role models.Role) bool {
	set, ok := permissions[op]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}
