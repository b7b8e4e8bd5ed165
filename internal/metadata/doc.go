// Package metadata reads and writes the RightScript metadata block, a run of
// comment lines at the top of a script file:
//
//	# ---
//	# RightScript Name: install-nginx
//	# Description: Installs and starts nginx
//	# Packages:
//	# ...
//	#
//
// The block sits either at the very top of the file or directly after an
// interpreter line ("#!/bin/bash") and one blank line.
package metadata
