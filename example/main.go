package main

import (
	"context"
	"fmt"
	"log"
	"time"

	judge "github.com/crazyfrankie/judge-cmp"
)

func main() {
	// 创建评测配置
	config := judge.NewConfig()
	config.Mode = judge.ModeFloat
	config.Epsilon = 1e-9
	config.Files.Std = "std_output.txt"
	config.Files.User = "user_output.txt"
	config.ReadAll = true
	config.Timeout = 5 * time.Second

	// 创建评测实例
	j := judge.NewJudge(config)

	// 运行比较
	result, err := j.Check(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	// 内存中的输出也可以直接比较
	v, err := judge.CheckBytes([]byte("1 2\n3 4"), []byte("1 2\r\n3 4\n"), judge.ModeNormal, 0)
	if err != nil {
		log.Fatal(err)
	}

	// 输出结果
	fmt.Printf("评测状态: %s\n", result.GetStatus())
	fmt.Printf("读取字节: std=%d user=%d\n", result.StdBytes, result.UserBytes)
	fmt.Printf("耗时: %v\n", result.Elapsed)
	fmt.Printf("内存使用: %d bytes\n", result.MemoryUsed)
	fmt.Printf("内存比较: %s\n", v)
}
