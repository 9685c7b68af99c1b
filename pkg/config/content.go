package config

import (
	"fmt"
	"log"
	"os"
	"path"
)

// ReadFileFunc 读取内容文件的函数（embedded.ReadFile 或 os.ReadFile）
type ReadFileFunc func(path string) ([]byte, error)

// 内容文件名
const (
	LevelsFile  = "levels.yaml"
	EnemiesFile = "enemies.yaml"
	ClassesFile = "classes.yaml"
	RelicsFile  = "relics.yaml"
	SpellsFile  = "spells.yaml"
	ArenaFile   = "arena.yaml"
)

// Content 游戏内容配置集合
// 内容加载时创建一次，比任何一局游戏都活得久
type Content struct {
	Levels  *LevelsConfig
	Enemies *EnemiesConfig
	Classes *ClassesConfig
	Relics  *RelicsConfig
	Spells  *SpellsConfig
	Arena   *ArenaConfig
}

// LoadContent 从目录加载全部内容配置
// 参数：
//
//	read - 文件读取函数，nil 时使用 os.ReadFile
//	dir - 内容目录，如 "data"
func LoadContent(read ReadFileFunc, dir string) (*Content, error) {
	if read == nil {
		read = os.ReadFile
	}

	load := func(name string) ([]byte, string, error) {
		p := path.Join(dir, name)
		data, err := read(p)
		if err != nil {
			return nil, p, fmt.Errorf("failed to read %s: %w", p, err)
		}
		return data, p, nil
	}

	c := &Content{}

	data, src, err := load(LevelsFile)
	if err != nil {
		return nil, err
	}
	if c.Levels, err = ParseLevelsConfig(data, src); err != nil {
		return nil, err
	}

	if data, src, err = load(EnemiesFile); err != nil {
		return nil, err
	}
	if c.Enemies, err = ParseEnemiesConfig(data, src); err != nil {
		return nil, err
	}

	if data, src, err = load(ClassesFile); err != nil {
		return nil, err
	}
	if c.Classes, err = ParseClassesConfig(data, src); err != nil {
		return nil, err
	}

	if data, src, err = load(RelicsFile); err != nil {
		return nil, err
	}
	if c.Relics, err = ParseRelicsConfig(data, src); err != nil {
		return nil, err
	}

	if data, src, err = load(SpellsFile); err != nil {
		return nil, err
	}
	if c.Spells, err = ParseSpellsConfig(data, src); err != nil {
		return nil, err
	}

	if data, src, err = load(ArenaFile); err != nil {
		return nil, err
	}
	if c.Arena, err = ParseArenaConfig(data, src); err != nil {
		return nil, err
	}

	c.warnUnknownEnemies()

	log.Printf("[Config] Loaded content from %s: %d levels, %d enemy kinds, %d classes, %d relics, %d spells",
		dir, len(c.Levels.Levels), len(c.Enemies.Enemies), len(c.Classes.Classes), len(c.Relics.Relics), len(c.Spells.Spells))
	return c, nil
}

// warnUnknownEnemies 提示引用了未知敌人类型的生成规则
// 运行时这些规则生成 0 个敌人，不视为致命错误
func (c *Content) warnUnknownEnemies() {
	for _, level := range c.Levels.Levels {
		for i, spawn := range level.Spawns {
			if _, ok := c.Enemies.Get(spawn.Enemy); !ok {
				log.Printf("[Config] Warning: level %q spawn %d references unknown enemy %q (will be skipped)",
					level.Name, i, spawn.Enemy)
			}
		}
	}
}
