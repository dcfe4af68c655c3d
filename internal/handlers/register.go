package handlers

import "github.com/xulek/muonline-console-client/internal/router"

// RegisterGameServer installs the Game-Server handler family into r,
// closing each decoder over ctx (spec §4.5 "Handlers are registered at
// startup"). resolveNPCName is the external name-lookup collaborator
// named in spec §2 ("static lookup tables... out of scope"); pass nil to
// leave NPC/monster display names blank.
func RegisterGameServer(r *router.Router, ctx *Context, onCharacterList CharacterListSink, resolveNPCName func(uint16) string) {
	bind := func(h func(ctx *Context, main, sub byte, body []byte) error) router.HandlerFunc {
		return func(main, sub byte, body []byte) error {
			return h(ctx, main, sub, body)
		}
	}

	r.Register(0xF1, 0x01, bind(LoginResponse))
	r.Register(0xF3, 0x00, bind(CharacterList(onCharacterList)))
	r.Register(0xF3, 0x03, bind(CharacterInformation))
	r.Register(0xF3, 0x05, bind(CharacterStatIncreaseResponse))
	r.Register(0xF3, 0x07, bind(SkillList))
	r.Register(0xF3, 0x10, bind(InventoryList))
	r.Register(0xF3, 0x50, bind(MasterSkillList))
	r.Register(0xF3, 0x51, bind(MasterStatsUpdate))
	r.Register(0xF3, 0x52, bind(MasterCharacterLevelUpdate))
	r.Register(0xF3, 0x53, bind(MasterSkillLevelUpdate))
	r.Register(0x1C, 0x00, bind(MapChanged))

	r.Register(0x12, router.NoSubCode, bind(AddCharactersToScope))
	r.Register(0x13, router.NoSubCode, bind(AddNpcsToScope(resolveNPCName)))
	r.Register(0x20, router.NoSubCode, bind(ItemsDropped))
	r.Register(0x2F, router.NoSubCode, bind(MoneyDroppedExtended))
	r.Register(0x21, router.NoSubCode, bind(ItemDropRemoved))
	r.Register(0x14, router.NoSubCode, bind(MapObjectOutOfScope))
	r.Register(0x15, router.NoSubCode, bind(ObjectMoved))
	r.Register(0xD4, router.NoSubCode, bind(ObjectWalked))
	r.Register(0x17, router.NoSubCode, bind(ObjectGotKilled))
	r.Register(0x18, router.NoSubCode, bind(ObjectAnimation))

	// 0x22 is bidirectional: the client's own PickupItemRequest (see
	// internal/outbound) shares this main code with the server's
	// ItemAddToInventory reply — the router only ever sees the inbound
	// direction, so registering it here cannot collide with our own send.
	r.Register(0x22, router.NoSubCode, bind(InventoryItem))
	r.Register(0x28, router.NoSubCode, bind(InventoryRemove))
	r.Register(0x2A, router.NoSubCode, bind(InventoryDurability))

	// 0x26/0x27 are members of the Game-Server sub-code set (spec §4.4); the
	// spec names no distinct sub-variant for either, so both are wired
	// under the single sub-code 0x00 they are observed to carry.
	r.Register(0x26, 0x00, bind(HealthShield))
	r.Register(0x27, 0x00, bind(ManaAbility))
}
