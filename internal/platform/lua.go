package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable exposes info to configuration code as the read-only
// global `platform`. It must run before the config chunk is loaded.
func InjectPlatformTable(L *lua.LState, info *Info) error {
	t := L.NewTable()
	set := func(tbl *lua.LTable, fields map[string]lua.LValue) {
		for k, v := range fields {
			L.SetField(tbl, k, v)
		}
	}

	set(t, map[string]lua.LValue{
		"os":               lua.LString(info.OS),
		"arch":             lua.LString(info.Arch),
		"arch_raw":         lua.LString(info.ArchRaw),
		"release_arch":     lua.LString(releaseArch(info.Arch)),
		"is_linux":         lua.LBool(info.IsLinux()),
		"is_macos":         lua.LBool(info.IsMacOS()),
		"is_windows":       lua.LBool(info.IsWindows()),
		"is_amd64":         lua.LBool(info.IsAMD64()),
		"is_arm64":         lua.LBool(info.IsARM64()),
		"is_apple_silicon": lua.LBool(info.IsAppleSilicon()),
		"when":             L.NewFunction(luaWhen),
	})

	// is_debian_family, is_rhel_family, ...
	for _, family := range Families {
		L.SetField(t, "is_"+family+"_family", lua.LBool(info.InFamily(family)))
	}

	var distro lua.LValue = lua.LNil
	if d := info.Distro(); d != nil {
		dt := L.NewTable()
		set(dt, map[string]lua.LValue{
			"id":      lua.LString(d.ID),
			"family":  lua.LString(d.Family),
			"version": lua.LString(d.Version),
		})
		distro = readOnly(L, dt)
	}
	L.SetField(t, "distro", distro)

	ct := L.NewTable()
	set(ct, map[string]lua.LValue{
		"model":  lua.LString(info.CPU.ModelName),
		"known":  lua.LBool(info.CPU.Known),
		"avx2":   lua.LBool(info.CPU.AVX2),
		"bmi2":   lua.LBool(info.CPU.BMI2),
		"popcnt": lua.LBool(info.CPU.POPCNT),
	})
	L.SetField(t, "cpu", readOnly(L, ct))

	// nil on unsupported hosts so configs can write `platform.suggested_asset or "..."`
	var suggested lua.LValue = lua.LNil
	if asset, err := SuggestAsset(info); err == nil {
		suggested = lua.LString(asset)
	}
	L.SetField(t, "suggested_asset", suggested)

	L.SetGlobal("platform", readOnly(L, t))
	return nil
}

// luaWhen implements platform.when(cond, value): value if cond, else nil.
func luaWhen(L *lua.LState) int {
	if L.CheckBool(1) {
		L.Push(L.Get(2))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// readOnly returns an empty proxy that reads through to table and raises
// on assignment.
func readOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
