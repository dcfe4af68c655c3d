package handlers

import (
	"fmt"

	"github.com/xulek/muonline-console-client/internal/charstate"
	"github.com/xulek/muonline-console-client/internal/wire"
)

// Stat type codes carried by CharacterStatIncreaseResponse (spec §4.6 "stat
// increments").
const (
	StatTypeStrength   byte = 0
	StatTypeAgility    byte = 1
	StatTypeVitality   byte = 2
	StatTypeEnergy     byte = 3
	StatTypeLeadership byte = 4
)

// CharacterStatIncreaseResponse parses 0xF3/0x05: success(u8), statType(u8),
// newValue(u16), remainingPoints(u16) (spec §4.6 "Level/exp updates, stat
// increments ... straightforward assignments"). A zero success byte means
// the server rejected the point spend; the handler leaves state untouched.
func CharacterStatIncreaseResponse(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	success, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("character stat increase: reading success: %w", err)
	}
	statType, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("character stat increase: reading stat type: %w", err)
	}
	newValue, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("character stat increase: reading value: %w", err)
	}
	remainingPoints, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("character stat increase: reading remaining points: %w", err)
	}
	if success == 0 {
		return nil
	}

	strength, agility, vitality, energy, leadership := ctx.State.BaseStats()
	switch statType {
	case StatTypeStrength:
		strength = newValue
	case StatTypeAgility:
		agility = newValue
	case StatTypeVitality:
		vitality = newValue
	case StatTypeEnergy:
		energy = newValue
	case StatTypeLeadership:
		leadership = newValue
	default:
		return fmt.Errorf("character stat increase: unknown stat type 0x%02X", statType)
	}
	ctx.State.SetBaseStats(strength, agility, vitality, energy, leadership)

	level, experience, expToNext, _ := ctx.State.Progression()
	if err := ctx.State.SetProgression(level, experience, expToNext, remainingPoints); err != nil {
		return fmt.Errorf("character stat increase: %w", err)
	}
	ctx.emitStateChanged("stats")
	return nil
}

// MasterStatsUpdate parses 0xF3/0x51: masterExperience(u64),
// masterExpToNext(u64) — an incremental master-experience tick that leaves
// the master level and level points untouched (spec §4.6 "master-level
// updates").
func MasterStatsUpdate(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	masterExperience, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("master stats update: reading experience: %w", err)
	}
	masterExpToNext, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("master stats update: reading exp to next: %w", err)
	}

	masterLevel, _, _, masterLevelPoints := ctx.State.MasterProgression()
	if err := ctx.State.SetMasterProgression(masterLevel, masterExperience, masterExpToNext, masterLevelPoints); err != nil {
		return fmt.Errorf("master stats update: %w", err)
	}
	ctx.emitStateChanged("master_progression")
	return nil
}

// MasterCharacterLevelUpdate parses 0xF3/0x52: masterLevel(u16),
// masterExpToNext(u64), masterLevelPoints(u16) — a master level-up resync;
// current master experience resets to 0 the way a regular level-up resets
// progress toward the next level (spec §4.6 "master-level updates").
func MasterCharacterLevelUpdate(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	masterLevel, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("master character level update: reading level: %w", err)
	}
	masterExpToNext, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("master character level update: reading exp to next: %w", err)
	}
	masterLevelPoints, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("master character level update: reading level points: %w", err)
	}

	if err := ctx.State.SetMasterProgression(masterLevel, 0, masterExpToNext, masterLevelPoints); err != nil {
		return fmt.Errorf("master character level update: %w", err)
	}
	ctx.emitStateChanged("master_progression")
	return nil
}

// MasterSkillLevelUpdate parses 0xF3/0x53: skillID(u16), level(u8) — a
// single master skill's level changed (spec §4.6 "master-level updates").
// Any existing display values for the skill are preserved.
func MasterSkillLevelUpdate(ctx *Context, main, sub byte, body []byte) error {
	r := wire.NewReader(body)
	skillID, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("master skill level update: reading skill id: %w", err)
	}
	level, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("master skill level update: reading level: %w", err)
	}

	entry, _ := ctx.State.Skill(skillID)
	entry.Level = level
	ctx.State.SetSkill(skillID, entry)
	ctx.emitStateChanged("skills")
	return nil
}

// MasterSkillList parses 0xF3/0x50: count(1) then count records of
// skillID(u16) + level(u8) + hasDisplay(u8) + [display, nextDisplay] —
// the full master skill list, sent once on
// entering the master-level tree (spec §4.6 "master-level updates"). Uses
// the same skill map and record shape as SkillList; "master" here only
// distinguishes which packet populated the entry, not a separate map.
func MasterSkillList(ctx *Context, main, sub byte, body []byte) error {
	return skillList(ctx, "master skill list", body)
}

// SkillList parses the full skill list sent once at login: count(1) then
// count records of skillID(u16) + level(u8) + hasDisplay(u8) +
// [display(f32), nextDisplay(f32)] if hasDisplay != 0 (spec §3 "Skills:
// mapping skill_id → {level, display, next_display}").
func SkillList(ctx *Context, main, sub byte, body []byte) error {
	return skillList(ctx, "skill list", body)
}

func skillList(ctx *Context, label string, body []byte) error {
	r := wire.NewReader(body)
	count, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("%s: reading count: %w", label, err)
	}

	for i := byte(0); i < count; i++ {
		skillID, err := r.ReadUint16()
		if err != nil {
			return fmt.Errorf("%s: record %d: reading skill id: %w", label, i, err)
		}
		level, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("%s: record %d: reading level: %w", label, i, err)
		}
		hasDisplay, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("%s: record %d: reading display flag: %w", label, i, err)
		}

		entry := charstate.SkillEntry{Level: level}
		if hasDisplay != 0 {
			display, err := r.ReadFloat32()
			if err != nil {
				return fmt.Errorf("%s: record %d: reading display: %w", label, i, err)
			}
			nextDisplay, err := r.ReadFloat32()
			if err != nil {
				return fmt.Errorf("%s: record %d: reading next display: %w", label, i, err)
			}
			entry.Display = &display
			entry.NextDisplay = &nextDisplay
		}

		ctx.State.SetSkill(skillID, entry)
	}
	ctx.emitStateChanged("skills")
	return nil
}
