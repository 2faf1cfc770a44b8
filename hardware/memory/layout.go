// This file is part of GopherDS.
//
// GopherDS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherDS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherDS.  If not, see <https://www.gnu.org/licenses/>.

package memory

// wait states for the ARM9, in ARM9 cycles. these are approximations of the
// real timings. the ARM9's caches are not emulated
var (
	arm9TCM      = waits(1, 1, 1, 1)
	arm9Bus32    = waits(8, 2, 8, 2)
	arm9Bus16    = waits(8, 2, 10, 4)
	arm9MainRAM  = waits(18, 2, 20, 4)
	arm9GBASlot  = waits(20, 12, 32, 24)
	arm9Unmapped = waits(2, 2, 2, 2)
)

// wait states for the ARM7, in ARM7 cycles.
var (
	arm7Bus32    = waits(1, 1, 1, 1)
	arm7VRAM     = waits(1, 1, 2, 2)
	arm7MainRAM  = waits(9, 1, 10, 2)
	arm7GBASlot  = waits(6, 4, 12, 8)
	arm7Unmapped = waits(1, 1, 1, 1)
)

// paint a region onto the pages between start and end inclusive, in the
// listed page tables.
func (m *Map) paint(start uint32, end uint32, region uint8, tables ...int) {
	for p := start >> pageShift; p <= end>>pageShift; p++ {
		for _, t := range tables {
			m.pages[t][p] = region
		}
	}
}

// paintAll paints the region onto every page table.
func (m *Map) paintAll(start uint32, end uint32, region uint8) {
	m.paint(start, end, region, tableData, tableFetch, tableDMA)
}

// Reconfigure rebuilds the page table. It must be called whenever WRAMCNT or
// the TCM configuration changes.
func (m *Map) Reconfigure() {
	for t := range m.pages {
		clear(m.pages[t])
	}
	switch m.core {
	case ARM9:
		m.layoutARM9()
	case ARM7:
		m.layoutARM7()
	default:
		panic("memory: unknown core")
	}
}

func (m *Map) layoutARM9() {
	sh := m.shared

	m.regions[regionUnmapped] = Region{Name: "unmapped", Wait: arm9Unmapped}
	m.regions[regionMainRAM] = Region{Name: "main RAM", Data: sh.MainRAM, Mask: MainRAMSize - 1, Perm: PermRWX, Wait: arm9MainRAM}
	m.regions[regionIO] = Region{Name: "I/O", IO: true, Mask: 0xffffff, Perm: PermRW, Wait: arm9Bus32}
	m.regions[regionPalette] = Region{Name: "palette", Data: sh.Palette, Mask: PaletteSize - 1, Perm: PermRWX, Wait: arm9Bus16, NoByteWrites: true}
	m.regions[regionVRAM] = Region{Name: "VRAM", Data: sh.VRAM, Mask: VRAMSize - 1, Perm: PermRWX, Wait: arm9Bus16}
	m.regions[regionOAM] = Region{Name: "OAM", Data: sh.OAM, Mask: OAMSize - 1, Perm: PermRWX, Wait: arm9Bus16, NoByteWrites: true}
	m.regions[regionGBASlot] = Region{Name: "GBA slot", Fill: 0xffffffff, Perm: PermRead, Wait: arm9GBASlot}
	m.regions[regionBIOS] = Region{Name: "ARM9 BIOS", Data: sh.BIOS9, Mask: BIOS9Size - 1, Perm: PermRX, Wait: arm9Bus32}
	m.regions[regionITCM] = Region{Name: "ITCM", Data: sh.ITCM, Mask: ITCMSize - 1, Perm: PermRWX, Wait: arm9TCM}
	m.regions[regionDTCM] = Region{Name: "DTCM", Data: sh.DTCM, Mask: DTCMSize - 1, Perm: PermRW, Wait: arm9TCM}

	m.paintAll(0x02000000, 0x02ffffff, regionMainRAM)

	wram := Region{Name: "shared WRAM", Perm: PermRWX, Wait: arm9Bus32}
	switch sh.WRAMCNT & 0x03 {
	case 0:
		wram.Data = sh.WRAM
		wram.Mask = WRAMSize - 1
	case 1:
		wram.Data = sh.WRAM[WRAMSize/2:]
		wram.Mask = WRAMSize/2 - 1
	case 2:
		wram.Data = sh.WRAM[:WRAMSize/2]
		wram.Mask = WRAMSize/2 - 1
	}
	m.regions[regionSharedWRAM] = wram
	if wram.Data != nil {
		m.paintAll(0x03000000, 0x03ffffff, regionSharedWRAM)
	}

	m.paintAll(0x04000000, 0x04ffffff, regionIO)
	m.paintAll(0x05000000, 0x05ffffff, regionPalette)
	m.paintAll(0x06000000, 0x06ffffff, regionVRAM)
	m.paintAll(0x07000000, 0x07ffffff, regionOAM)
	m.paintAll(0x08000000, 0x0affffff, regionGBASlot)
	m.paintAll(0xffff0000, 0xffffffff, regionBIOS)

	// DTCM is not visible to instruction fetches or to DMA
	if m.dtcm.Enabled && m.dtcm.Size > 0 {
		size := max(m.dtcm.Size, pageSize)
		base := Align(m.dtcm.Base, size)
		m.paint(base, base+size-1, regionDTCM, tableData)
	}

	// ITCM has priority over DTCM
	if m.itcm.Enabled && m.itcm.Size > 0 {
		size := max(m.itcm.Size, pageSize)
		m.paint(0, size-1, regionITCM, tableData, tableFetch)
	}
}

func (m *Map) layoutARM7() {
	sh := m.shared

	m.regions[regionUnmapped] = Region{Name: "unmapped", Wait: arm7Unmapped}
	m.regions[regionBIOS] = Region{Name: "ARM7 BIOS", Data: sh.BIOS7, Mask: BIOS7Size - 1, Perm: PermRX, Wait: arm7Bus32, Protected: true}
	m.regions[regionMainRAM] = Region{Name: "main RAM", Data: sh.MainRAM, Mask: MainRAMSize - 1, Perm: PermRWX, Wait: arm7MainRAM}
	m.regions[regionARM7WRAM] = Region{Name: "ARM7 WRAM", Data: sh.ARM7WRAM, Mask: ARM7WRAMSize - 1, Perm: PermRWX, Wait: arm7Bus32}
	m.regions[regionIO] = Region{Name: "I/O", IO: true, Mask: 0xffffff, Perm: PermRW, Wait: arm7Bus32}
	m.regions[regionVRAM] = Region{Name: "ARM7 VRAM", Data: sh.ARM7VRAM, Mask: ARM7VRAMSize - 1, Perm: PermRWX, Wait: arm7VRAM}
	m.regions[regionGBASlot] = Region{Name: "GBA slot", Fill: 0xffffffff, Perm: PermRead, Wait: arm7GBASlot}

	m.paintAll(0x00000000, BIOS7Size-1, regionBIOS)
	m.paintAll(0x02000000, 0x02ffffff, regionMainRAM)

	// the ARM7 sees its own WRAM in the shared WRAM area when it has been
	// given none of the shared WRAM
	wram := Region{Name: "shared WRAM", Perm: PermRWX, Wait: arm7Bus32}
	switch m.shared.WRAMCNT & 0x03 {
	case 0:
		wram = m.regions[regionARM7WRAM]
	case 1:
		wram.Data = sh.WRAM[:WRAMSize/2]
		wram.Mask = WRAMSize/2 - 1
	case 2:
		wram.Data = sh.WRAM[WRAMSize/2:]
		wram.Mask = WRAMSize/2 - 1
	case 3:
		wram.Data = sh.WRAM
		wram.Mask = WRAMSize - 1
	}
	m.regions[regionSharedWRAM] = wram
	m.paintAll(0x03000000, 0x037fffff, regionSharedWRAM)
	m.paintAll(0x03800000, 0x03ffffff, regionARM7WRAM)

	m.paintAll(0x04000000, 0x047fffff, regionIO)
	m.paintAll(0x06000000, 0x06ffffff, regionVRAM)
	m.paintAll(0x08000000, 0x0affffff, regionGBASlot)
}

// RegionName returns the name of the region an address resolves to for a data
// access.
func (m *Map) RegionName(addr uint32) string {
	return m.regions[m.pages[tableData][addr>>pageShift]].Name
}
