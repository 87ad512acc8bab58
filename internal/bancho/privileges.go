package bancho

// Privileges is the server-side privilege bitset stored on the users table.
type Privileges int32

const (
	// PrivUnrestricted marks an account in good standing. Cleared on restriction.
	PrivUnrestricted Privileges = 1 << 0
	// PrivVerified is set after the first successful login.
	PrivVerified Privileges = 1 << 1
	// PrivWhitelisted bypasses anticheat score checks.
	PrivWhitelisted Privileges = 1 << 2

	PrivSupporter Privileges = 1 << 4
	PrivPremium   Privileges = 1 << 5

	PrivAlumni Privileges = 1 << 7

	// PrivTournament grants tourney-client login and match management.
	PrivTournament Privileges = 1 << 10
	PrivNominator  Privileges = 1 << 11
	PrivMod        Privileges = 1 << 12
	PrivAdmin      Privileges = 1 << 13
	PrivDeveloper  Privileges = 1 << 14

	PrivDonator Privileges = PrivSupporter | PrivPremium
	PrivStaff   Privileges = PrivMod | PrivAdmin | PrivDeveloper
)

// Has reports whether every bit of mask is set.
func (p Privileges) Has(mask Privileges) bool {
	return p&mask == mask
}

// HasAny reports whether any bit of mask is set.
func (p Privileges) HasAny(mask Privileges) bool {
	return p&mask != 0
}

// ClientPrivileges is the reduced bitset the client understands.
type ClientPrivileges int32

const (
	ClientPrivPlayer     ClientPrivileges = 1 << 0
	ClientPrivModerator  ClientPrivileges = 1 << 1
	ClientPrivSupporter  ClientPrivileges = 1 << 2
	ClientPrivOwner      ClientPrivileges = 1 << 3
	ClientPrivDeveloper  ClientPrivileges = 1 << 4
	ClientPrivTournament ClientPrivileges = 1 << 5
)

// ClientSide converts server privileges to the client-side bitset.
func (p Privileges) ClientSide() ClientPrivileges {
	cp := ClientPrivPlayer
	if p.HasAny(PrivDonator) {
		cp |= ClientPrivSupporter
	}
	if p.HasAny(PrivMod | PrivAdmin) {
		cp |= ClientPrivModerator
	}
	if p.Has(PrivDeveloper) {
		cp |= ClientPrivDeveloper
	}
	if p.Has(PrivAdmin | PrivDeveloper) {
		cp |= ClientPrivOwner
	}
	return cp
}
