package repository

import "github.com/stretchr/testify/mock"

type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Error(format string, v ...interface{}) { m.Called(format) }
func (m *MockLogger) Warn(format string, v ...interface{})  { m.Called(format) }
func (m *MockLogger) Info(format string, v ...interface{})  { m.Called(format) }
func (m *MockLogger) Debug(format string, v ...interface{}) { m.Called(format) }
