// Package seed 把 JSON 初始数据导入存储，供首次部署或本地开发使用。
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/project"
	"github.com/SlpAus/portfolio-backend/internal/review"
	"github.com/SlpAus/portfolio-backend/internal/skill"
)

// Data 对应种子文件的结构
type Data struct {
	Projects []project.Input `json:"projects"`
	Skills   []skill.Input   `json:"skills"`
	Reviews  []review.Input  `json:"reviews"`
}

// Summary 记录每类数据实际写入的条数
type Summary struct {
	Projects int `json:"projects"`
	Skills   int `json:"skills"`
	Reviews  int `json:"reviews"`
}

// Services 是导入时使用的服务集合，与 HTTP 接口走同一套校验
type Services struct {
	Projects *project.Service
	Skills   *skill.Service
	Reviews  *review.Service
}

func Load(r io.Reader) (*Data, error) {
	var d Data
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	return &d, nil
}

// Apply 导入数据并保证可重复执行：
// 已有 packageName 的技能被跳过；projects 与 reviews 仅在集合为空时导入。
func Apply(ctx context.Context, svc Services, d *Data, logger logrus.FieldLogger) (Summary, error) {
	var sum Summary

	empty, err := isEmpty(ctx, func(q pager.Query) (int64, error) {
		p, err := svc.Projects.List(ctx, "", q)
		return p.Total, err
	})
	if err != nil {
		return sum, err
	}
	if empty {
		for _, in := range d.Projects {
			if _, err := svc.Projects.Create(ctx, in); err != nil {
				return sum, fmt.Errorf("导入项目 %q 失败: %w", in.Title, err)
			}
			sum.Projects++
		}
	} else if len(d.Projects) > 0 {
		logger.Info("projects 集合非空，跳过项目导入")
	}

	for _, in := range d.Skills {
		if _, err := svc.Skills.Create(ctx, in); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				logger.WithField("package_name", in.PackageName).Info("技能已存在，跳过")
				continue
			}
			return sum, fmt.Errorf("导入技能 %q 失败: %w", in.PackageName, err)
		}
		sum.Skills++
	}

	empty, err = isEmpty(ctx, func(q pager.Query) (int64, error) {
		p, err := svc.Reviews.List(ctx, q)
		return p.Total, err
	})
	if err != nil {
		return sum, err
	}
	if empty {
		for _, in := range d.Reviews {
			if _, err := svc.Reviews.Create(ctx, in); err != nil {
				return sum, fmt.Errorf("导入评价失败: %w", err)
			}
			sum.Reviews++
		}
	} else if len(d.Reviews) > 0 {
		logger.Info("reviews 集合非空，跳过评价导入")
	}

	return sum, nil
}

func isEmpty(ctx context.Context, count func(pager.Query) (int64, error)) (bool, error) {
	total, err := count(pager.Query{Page: 1, Limit: 1})
	if err != nil {
		return false, err
	}
	return total == 0, nil
}
