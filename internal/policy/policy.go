// Package policy decides whether an actor may perform an action. Decisions
// are pure functions of the actor, the action and, for owned content, the
// owner's id; nothing here touches storage.
package policy

import "yamdb/internal/entity"

type Action string

const (
	ActionRead          Action = "read"
	ActionWriteCatalog  Action = "write_catalog"
	ActionCreateContent Action = "create_content"
	ActionModifyContent Action = "modify_content"
	ActionManageUsers   Action = "manage_users"
	ActionEditSelf      Action = "edit_self"
)

// allowedRoles lists, per action, every role that may perform it. Roles do
// not inherit from each other; RoleAdmin also admits staff accounts.
var allowedRoles = map[Action][]entity.UserRole{
	ActionWriteCatalog:  {entity.RoleAdmin},
	ActionManageUsers:   {entity.RoleAdmin},
	ActionCreateContent: {entity.RoleUser, entity.RoleModerator, entity.RoleAdmin},
	ActionModifyContent: {entity.RoleModerator, entity.RoleAdmin},
	ActionEditSelf:      {entity.RoleUser, entity.RoleModerator, entity.RoleAdmin},
}

// ownerAllowed marks actions the owner of the target may perform whatever
// their role.
var ownerAllowed = map[Action]bool{
	ActionModifyContent: true,
}

// Authorize returns nil when actor may perform action, ErrUnauthorized
// otherwise. ownerID is the author of the target for owned content, 0 when
// the action has no target owner. A nil actor is anonymous.
func Authorize(actor *entity.User, action Action, ownerID uint) error {
	if action == ActionRead {
		return nil
	}
	if !actor.IsAuthenticated() {
		return entity.ErrUnauthorized
	}
	if ownerAllowed[action] && ownerID != 0 && actor.ID == ownerID {
		return nil
	}
	if hasAllowedRole(actor, allowedRoles[action]) {
		return nil
	}
	return entity.ErrUnauthorized
}

func hasAllowedRole(actor *entity.User, roles []entity.UserRole) bool {
	for _, role := range roles {
		if role == entity.RoleAdmin {
			if actor.IsAdmin() {
				return true
			}
			continue
		}
		if actor.Role == role {
			return true
		}
	}
	return false
}

func CanWriteCatalog(actor *entity.User) error {
	return Authorize(actor, ActionWriteCatalog, 0)
}

func CanCreateContent(actor *entity.User) error {
	return Authorize(actor, ActionCreateContent, 0)
}

func CanModifyContent(actor *entity.User, authorID uint) error {
	return Authorize(actor, ActionModifyContent, authorID)
}

func CanManageUsers(actor *entity.User) error {
	return Authorize(actor, ActionManageUsers, 0)
}

func CanEditSelf(actor *entity.User) error {
	return Authorize(actor, ActionEditSelf, 0)
}
