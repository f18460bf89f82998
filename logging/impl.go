package logging

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name  string
	level zap.AtomicLevel

	// cores accept every level; filtering happens through level.
	cores  []zapcore.Core
	// fields are attached to every entry and carried into subloggers.
	fields []interface{}
	sugar  *zap.SugaredLogger
}

func newImpl(name string, level Level, cores ...zapcore.Core) *impl {
	imp := &impl{
		name:  name,
		level: zap.NewAtomicLevelAt(level.AsZap()),
		cores: cores,
	}

	base := zap.NewNop()
	if len(cores) > 0 {
		// cores must be enabled at Debug so that any level can be filtered through imp.level.
		filtered, err := zapcore.NewIncreaseLevelCore(zapcore.NewTee(cores...), imp.level)
		if err != nil {
			panic(errors.Wrap(err, "logger cores must accept every level"))
		}
		base = zap.New(filtered, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if name != "" {
		base = base.Named(name)
	}
	imp.sugar = base.Sugar()
	return imp
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}
	sub := newImpl(newName, imp.GetLevel(), imp.cores...)
	sub.fields = imp.fields
	sub.sugar = sub.sugar.With(imp.fields...)
	return sub
}

func (imp *impl) WithFields(keysAndValues ...interface{}) Logger {
	fields := make([]interface{}, 0, len(imp.fields)+len(keysAndValues))
	fields = append(fields, imp.fields...)
	fields = append(fields, keysAndValues...)
	return &impl{
		name:   imp.name,
		level:  imp.level,
		cores:  imp.cores,
		fields: fields,
		sugar:  imp.sugar.With(keysAndValues...),
	}
}

func (imp *impl) SetLevel(level Level) {
	imp.level.SetLevel(level.AsZap())
}

func (imp *impl) GetLevel() Level {
	return levelFromZap(imp.level.Level())
}

func (imp *impl) AsZap() *zap.SugaredLogger {
	return imp.sugar
}

func (imp *impl) Sync() error {
	var errs []error
	for _, core := range imp.cores {
		if err := core.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

func (imp *impl) Debug(args ...interface{}) {
	imp.sugar.Debug(args...)
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.sugar.Debugf(template, args...)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.sugar.Debugw(msg, keysAndValues...)
}

func (imp *impl) Info(args ...interface{}) {
	imp.sugar.Info(args...)
}

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.sugar.Infof(template, args...)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.sugar.Infow(msg, keysAndValues...)
}

func (imp *impl) Warn(args ...interface{}) {
	imp.sugar.Warn(args...)
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.sugar.Warnf(template, args...)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.sugar.Warnw(msg, keysAndValues...)
}

func (imp *impl) Error(args ...interface{}) {
	imp.sugar.Error(args...)
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.sugar.Errorf(template, args...)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.sugar.Errorw(msg, keysAndValues...)
}
