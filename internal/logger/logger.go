/*
 * logger.go, part of seismat.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package logger holds the logger shared by the seismat packages.
package logger

import (
	"io"
	"log"

	"github.com/sirupsen/logrus"
)

// Logger is used by every package that is not given its own logger.
// Until Init is called it logs warnings and errors to stderr.
var Logger = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Init sets the level and format of Logger. An empty level means
// "warn". If output is not nil, Logger and the standard log package
// write to it.
func Init(level string, json bool, output io.Writer) error {
	if json {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	if output != nil {
		Logger.SetOutput(output)
		log.SetOutput(output)
	}
	if level == "" {
		level = "warn"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.SetLevel(logrus.WarnLevel)
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// Or returns l if it is not nil, and Logger otherwise.
func Or(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	return Logger
}
