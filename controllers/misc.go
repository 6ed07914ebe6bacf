package controllers

import (
	"fmt"
	"net/http"

	"sonora/util"

	"github.com/gofiber/fiber/v2"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SysInfo is what the heartbeat reports about the host
type SysInfo struct {
	Hostname  string `json:"hostname"`
	Platform  string `json:"platform"`
	Processor string `json:"processor"`
	RAM       string `json:"ram"`
	Disk      string `json:"disk"`
}

const gigabyte = 1024 * 1024 * 1024

// Heartbeat reports that the server is up along with some host information. Host lookups that
// fail are left empty.
func Heartbeat(ctx *fiber.Ctx) error {
	info := SysInfo{}
	if hostStat, err := host.Info(); err == nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.Processor = cpuStat[0].ModelName
	}
	if vmStatus, err := mem.VirtualMemory(); err == nil {
		info.RAM = fmt.Sprintf("%dGB", vmStatus.Total/gigabyte)
	}
	if diskStat, err := disk.Usage("/"); err == nil {
		info.Disk = fmt.Sprintf("%dGB", diskStat.Total/gigabyte)
	}
	return util.SuccessResponse(ctx, http.StatusOK, info)
}
