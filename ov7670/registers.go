// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ov7670

import "fmt"

// Register is an address in the sensor register file.
type Register byte

// Register file, named as in the OV7670 datasheet.
const (
	RegGAIN             Register = 0x00
	RegBLUE             Register = 0x01
	RegRED              Register = 0x02
	RegVREF             Register = 0x03
	RegCOM1             Register = 0x04
	RegBAVE             Register = 0x05
	RegGbAVE            Register = 0x06
	RegAECHH            Register = 0x07
	RegRAVE             Register = 0x08
	RegCOM2             Register = 0x09
	RegPID              Register = 0x0A
	RegVER              Register = 0x0B
	RegCOM3             Register = 0x0C
	RegCOM4             Register = 0x0D
	RegCOM5             Register = 0x0E
	RegCOM6             Register = 0x0F
	RegAECH             Register = 0x10
	RegCLKRC            Register = 0x11
	RegCOM7             Register = 0x12
	RegCOM8             Register = 0x13
	RegCOM9             Register = 0x14
	RegCOM10            Register = 0x15
	// 0x16 reserved.
	RegHSTART           Register = 0x17
	RegHSTOP            Register = 0x18
	RegVSTRT            Register = 0x19
	RegVSTOP            Register = 0x1A
	RegPSHFT            Register = 0x1B
	RegMIDH             Register = 0x1C
	RegMIDL             Register = 0x1D
	RegMVFP             Register = 0x1E
	// 0x1F reserved.
	RegADCCTR0          Register = 0x20
	// 0x21-0x23 reserved.
	RegAEW              Register = 0x24
	RegAEB              Register = 0x25
	RegVPT              Register = 0x26
	RegBBIAS            Register = 0x27
	RegGbBIAS           Register = 0x28
	// 0x29 reserved.
	RegEXHCH            Register = 0x2A
	RegEXHCL            Register = 0x2B
	RegRBIAS            Register = 0x2C
	RegADVFL            Register = 0x2D
	RegADVFH            Register = 0x2E
	RegYAVE             Register = 0x2F
	RegHSYST            Register = 0x30
	RegHSYEN            Register = 0x31
	RegHREF             Register = 0x32
	RegCHLF             Register = 0x33
	RegARBLM            Register = 0x34
	// 0x35-0x36 reserved.
	RegADC              Register = 0x37
	RegACOM             Register = 0x38
	RegOFON             Register = 0x39
	RegTSLB             Register = 0x3A
	RegCOM11            Register = 0x3B
	RegCOM12            Register = 0x3C
	RegCOM13            Register = 0x3D
	RegCOM14            Register = 0x3E
	RegEDGE             Register = 0x3F
	RegCOM15            Register = 0x40
	RegCOM16            Register = 0x41
	RegCOM17            Register = 0x42
	RegAWBC1            Register = 0x43
	RegAWBC2            Register = 0x44
	RegAWBC3            Register = 0x45
	RegAWBC4            Register = 0x46
	RegAWBC5            Register = 0x47
	RegAWBC6            Register = 0x48
	// 0x49-0x4A reserved.
	RegREG4B            Register = 0x4B
	RegDNSTH            Register = 0x4C
	RegDMPOS            Register = 0x4D
	// 0x4E reserved.
	RegMTX1             Register = 0x4F
	RegMTX2             Register = 0x50
	RegMTX3             Register = 0x51
	RegMTX4             Register = 0x52
	RegMTX5             Register = 0x53
	RegMTX6             Register = 0x54
	RegBRIGHT           Register = 0x55
	RegCONTRAST         Register = 0x56
	RegCONTRASCENTER    Register = 0x57
	RegMTXS             Register = 0x58
	RegAWBC7            Register = 0x59
	RegAWBC8            Register = 0x5A
	RegAWBC9            Register = 0x5B
	RegAWBC10           Register = 0x5C
	RegAWBC11           Register = 0x5D
	RegAWBC12           Register = 0x5E
	RegBLMT             Register = 0x5F
	RegRLMT             Register = 0x60
	RegGLMT             Register = 0x61
	RegLCC1             Register = 0x62
	RegLCC2             Register = 0x63
	RegLCC3             Register = 0x64
	RegLCC4             Register = 0x65
	RegLCC5             Register = 0x66
	RegMANU             Register = 0x67
	RegMANV             Register = 0x68
	RegGFIX             Register = 0x69
	RegGGAIN            Register = 0x6A
	RegDBLV             Register = 0x6B
	RegAWBCTR3          Register = 0x6C
	RegAWBCTR2          Register = 0x6D
	RegAWBCTR1          Register = 0x6E
	RegAWBCTR0          Register = 0x6F
	RegSCALINGXSC       Register = 0x70
	RegSCALINGYSC       Register = 0x71
	RegSCALINGDCWCTR    Register = 0x72
	RegSCALINGPCLKDIV   Register = 0x73
	RegREG74            Register = 0x74
	RegREG75            Register = 0x75
	RegREG76            Register = 0x76
	RegREG77            Register = 0x77
	// 0x78-0x79 reserved.
	RegSLOP             Register = 0x7A
	RegGAM1             Register = 0x7B
	RegGAM2             Register = 0x7C
	RegGAM3             Register = 0x7D
	RegGAM4             Register = 0x7E
	RegGAM5             Register = 0x7F
	RegGAM6             Register = 0x80
	RegGAM7             Register = 0x81
	RegGAM8             Register = 0x82
	RegGAM9             Register = 0x83
	RegGAM10            Register = 0x84
	RegGAM11            Register = 0x85
	RegGAM12            Register = 0x86
	RegGAM13            Register = 0x87
	RegGAM14            Register = 0x88
	RegGAM15            Register = 0x89
	// 0x8A-0x91 reserved.
	RegDMLNL            Register = 0x92
	RegDMLNH            Register = 0x93
	RegLCC6             Register = 0x94
	RegLCC7             Register = 0x95
	// 0x96-0x9C reserved.
	RegBD50ST           Register = 0x9D
	RegBD60ST           Register = 0x9E
	RegHRL              Register = 0x9F
	RegLRL              Register = 0xA0
	RegDSPC3            Register = 0xA1
	RegSCALINGPCLKDELAY Register = 0xA2
	// 0xA3 reserved.
	RegNTCTRL           Register = 0xA4
	RegAECGMAX          Register = 0xA5
	RegLPH              Register = 0xA6
	RegUPL              Register = 0xA7
	RegTPL              Register = 0xA8
	RegTPH              Register = 0xA9
	RegNALG             Register = 0xAA
	// 0xAB reserved.
	RegSTROPT           Register = 0xAC
	RegSTRR             Register = 0xAD
	RegSTRG             Register = 0xAE
	RegSTRB             Register = 0xAF
	// 0xB0 reserved.
	RegABLC1            Register = 0xB1
	// 0xB2 reserved.
	RegTHLST            Register = 0xB3
	// 0xB4 reserved.
	RegTHLDLT           Register = 0xB5
	// 0xB6-0xBD reserved.
	RegADCHB            Register = 0xBE
	RegADCHR            Register = 0xBF
	RegADCHGb           Register = 0xC0
	RegADCHGr           Register = 0xC1
	// 0xC2-0xC8 reserved.
	RegSATCTR           Register = 0xC9
)

// Bits written by the lifecycle manager and the controls.
const (
	com1CCIR656  byte = 1 << 6
	com2Standby  byte = 1 << 4
	com7Reset    byte = 1 << 7
	vrefGainHigh byte = 3 << 6
	mvfpMirror   byte = 1 << 5
	mvfpFlip     byte = 1 << 4
	clkrcExt     byte = 1 << 6
	clkrcScale   byte = 0x3F
	dblvPLL      byte = 3 << 6
)

// Reserved returns true for addresses the datasheet leaves undefined.
//
// Writing to them has unspecified effects on the sensor.
func (r Register) Reserved() bool {
	switch {
	case r == 0x16, r == 0x1F, r >= 0x21 && r <= 0x23, r == 0x29,
		r == 0x35, r == 0x36, r == 0x49, r == 0x4A, r == 0x4E,
		r == 0x78, r == 0x79, r >= 0x8A && r <= 0x91, r >= 0x96 && r <= 0x9C,
		r == 0xA3, r == 0xAB, r == 0xB0, r == 0xB2, r == 0xB4,
		r >= 0xB6 && r <= 0xBD, r >= 0xC2 && r <= 0xC8, r > RegSATCTR:
		return true
	}
	return false
}

func (r Register) String() string {
	return fmt.Sprintf("register %#02x", byte(r))
}
