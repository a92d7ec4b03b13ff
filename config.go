package judge

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/crazyfrankie/judge-cmp/constant"
)

// DefaultEpsilon float 模式的默认误差
const DefaultEpsilon = 1e-6

// Config 评测配置
type Config struct {
	Mode    Mode    `json:"mode"`
	Epsilon float64 `json:"epsilon"`

	Files struct {
		Std    string `json:"std"`
		User   string `json:"user"`
		StdFD  int    `json:"std_fd"`
		UserFD int    `json:"user_fd"`
	} `json:"files"`

	Buffer struct {
		Size int `json:"size"`
	} `json:"buffer"`

	// ReadAll 即使已经判定也读完用户输出
	ReadAll bool `json:"read_all"`
	// Timeout 比较的墙钟时间限制，0 表示不限制
	Timeout time.Duration `json:"timeout"`

	Limits struct {
		CPU    time.Duration `json:"cpu"`
		Memory int64         `json:"memory"`
	} `json:"limits"`

	Security struct {
		Syscalls []string `json:"syscalls"`
	} `json:"security"`
}

// NewConfig 返回带默认值的配置
func NewConfig() *Config {
	c := &Config{
		Mode:    ModeNormal,
		Epsilon: DefaultEpsilon,
	}
	c.Files.StdFD = -1
	c.Files.UserFD = -1
	c.Buffer.Size = DefaultBufferSize
	return c
}

// LoadConfig 读取 JSON 配置文件，未出现的字段保持默认值
func LoadConfig(path string) (*Config, error) {
	c := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &constant.ConfigErr{Msg: fmt.Sprintf("read config file %s: %v", path, err)}
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, c); err != nil {
			return nil, &constant.ConfigErr{Msg: fmt.Sprintf("parse config file %s: %v", path, err)}
		}
	}
	return c, nil
}

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode

	if c.Buffer.Size < MinBufferSize {
		return &constant.ConfigErr{Msg: fmt.Sprintf("buffer size is too small: buffer_size = %d", c.Buffer.Size)}
	}
	if c.Files.Std == "" && c.Files.StdFD < 0 {
		return &constant.ConfigErr{Msg: "std file must be specified"}
	}
	if c.Files.User == "" && c.Files.UserFD < 0 {
		return &constant.ConfigErr{Msg: "user file must be specified"}
	}
	if c.Mode == ModeFloat {
		if err := ValidateEpsilon(c.Epsilon); err != nil {
			return err
		}
	}
	if c.Timeout < 0 {
		return &constant.ConfigErr{Msg: fmt.Sprintf("timeout must be non-negative: timeout = %v", c.Timeout)}
	}
	if c.Limits.CPU < 0 || c.Limits.Memory < 0 {
		return &constant.ConfigErr{Msg: "limits must be non-negative"}
	}
	return nil
}

// ValidateEpsilon requires eps to be zero or a normal, non-negative float.
func ValidateEpsilon(eps float64) error {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || (eps != 0 && math.Abs(eps) < 0x1p-1022) {
		return &constant.ConfigErr{Msg: fmt.Sprintf("eps is invalid: eps = %v", eps)}
	}
	if eps < 0 {
		return &constant.ConfigErr{Msg: fmt.Sprintf("eps must be non-negative: eps = %v", eps)}
	}
	return nil
}
